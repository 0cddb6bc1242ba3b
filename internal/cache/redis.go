package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/models"
)

const (
	keyAll         = "restaurants:all"
	notFoundMarker = "notfound"
	notFoundTTL    = time.Minute
)

func keyOne(id uint) string { return fmt.Sprintf("restaurant:%d", id) }

func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Redis caches restaurant reads. Redis failures degrade to the loader.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{Client: client, TTL: ttl}
}

func (c *Redis) Restaurant(ctx context.Context, id uint, load RestaurantLoader) (*models.Restaurant, error) {
	l := logging.FromContext(ctx).With("cache", "restaurant")
	key := keyOne(id)

	data, err := c.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, fmt.Errorf("restaurant %d: %w", id, apperr.ErrNotFound)
		}
		var rest models.Restaurant
		if err := json.Unmarshal(data, &rest); err == nil {
			return &rest, nil
		}
		l.Warn("cache_decode_failed", "key", key, "error", err)
	case errors.Is(err, redis.Nil):
	default:
		l.Warn("cache_get_failed", "key", key, "error", err)
	}

	rest, err := load(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			if setErr := c.Client.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
				l.Warn("cache_set_failed", "key", key, "error", setErr)
			}
		}
		return nil, err
	}

	c.store(ctx, key, rest)
	return rest, nil
}

func (c *Redis) All(ctx context.Context, load RestaurantsLoader) ([]models.Restaurant, error) {
	l := logging.FromContext(ctx).With("cache", "restaurants")

	data, err := c.Client.Get(ctx, keyAll).Bytes()
	switch {
	case err == nil:
		var list []models.Restaurant
		if err := json.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		l.Warn("cache_decode_failed", "key", keyAll, "error", err)
	case errors.Is(err, redis.Nil):
	default:
		l.Warn("cache_get_failed", "key", keyAll, "error", err)
	}

	list, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyAll, list)
	return list, nil
}

func (c *Redis) Invalidate(ctx context.Context, id uint) {
	if err := c.Client.Del(ctx, keyOne(id), keyAll).Err(); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_failed", "restaurant_id", id, "error", err)
	}
}

func (c *Redis) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(ctx).Warn("cache_encode_failed", "key", key, "error", err)
		return
	}
	if err := c.Client.Set(ctx, key, data, c.TTL).Err(); err != nil {
		logging.FromContext(ctx).Warn("cache_set_failed", "key", key, "error", err)
	}
}
