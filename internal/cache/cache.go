package cache

import (
	"context"

	"github.com/Skotchmaster/foodmarket/internal/models"
)

type RestaurantLoader func(ctx context.Context) (*models.Restaurant, error)

type RestaurantsLoader func(ctx context.Context) ([]models.Restaurant, error)

// Restaurants is a read-through cache for restaurant reads.
type Restaurants interface {
	Restaurant(ctx context.Context, id uint, load RestaurantLoader) (*models.Restaurant, error)
	All(ctx context.Context, load RestaurantsLoader) ([]models.Restaurant, error)
	Invalidate(ctx context.Context, id uint)
}

// Nop always calls through to the loader.
type Nop struct{}

func (Nop) Restaurant(ctx context.Context, _ uint, load RestaurantLoader) (*models.Restaurant, error) {
	return load(ctx)
}

func (Nop) All(ctx context.Context, load RestaurantsLoader) ([]models.Restaurant, error) {
	return load(ctx)
}

func (Nop) Invalidate(context.Context, uint) {}
