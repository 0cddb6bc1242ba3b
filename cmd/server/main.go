package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/foodmarket/internal/authz"
	"github.com/Skotchmaster/foodmarket/internal/cache"
	"github.com/Skotchmaster/foodmarket/internal/config"
	"github.com/Skotchmaster/foodmarket/internal/db"
	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/graph"
	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/middleware/auth"
	"github.com/Skotchmaster/foodmarket/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/foodmarket/internal/middleware/logging"
	"github.com/Skotchmaster/foodmarket/internal/notify"
	"github.com/Skotchmaster/foodmarket/internal/repo"
	"github.com/Skotchmaster/foodmarket/internal/search"
	"github.com/Skotchmaster/foodmarket/internal/service"
	"github.com/Skotchmaster/foodmarket/internal/storage"
	httpserver "github.com/Skotchmaster/foodmarket/internal/transport/http"
)

func main() {
	cfg := config.Load()
	cfg.MustValid()

	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server_exit", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown_complete")
}

// run returns only after the server has stopped and every opened client has
// been closed.
func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db_open: %w", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		return fmt.Errorf("db_migrate: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error("db_close", "error", err)
		}
	}()
	store := repo.New(gdb)

	bus := events.New(cfg.KafkaBrokers, log)
	defer func() {
		if err := bus.Close(); err != nil {
			log.Error("events_close", "error", err)
		}
	}()

	var index search.Index = &search.DB{Repo: store}
	if cfg.ESURL != "" {
		client, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			return fmt.Errorf("elasticsearch_connect: %w", err)
		}
		es := &search.Elastic{Client: client, Index: cfg.ESIndex}
		if err := es.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("elasticsearch_index: %w", err)
		}
		index = es
	}

	var restaurants cache.Restaurants = cache.Nop{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("redis_connect: %w", err)
		}
		defer rdb.Close()
		restaurants = cache.NewRedis(rdb, cfg.CacheTTL)
	}

	var (
		images storage.ImageStore
		media  *storage.Memory
	)
	if cfg.S3Bucket != "" {
		s3, err := storage.NewS3(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			return fmt.Errorf("s3_config: %w", err)
		}
		images = s3
	} else {
		media = storage.NewMemory()
		images = media
	}

	identity := &service.IdentityService{
		Repo:          store,
		Events:        bus,
		Notifier:      &notify.EventNotifier{Publisher: bus},
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		ResetTTL:      cfg.ResetTokenTTL,
	}
	catalog := &service.CatalogService{
		Repo:     store,
		Cache:    restaurants,
		Search:   index,
		Images:   images,
		Events:   bus,
		MediaURL: cfg.MediaURL,
	}
	policy := authz.DefaultPolicy()

	schema, err := graph.NewSchema(&graph.Resolver{
		Identity: identity,
		Catalog:  catalog,
		Carts:    &service.CartService{Repo: store, Events: bus},
		Orders:   &service.OrderService{Repo: store, Events: bus},
		Policy:   policy,
	})
	if err != nil {
		return fmt.Errorf("graphql_schema: %w", err)
	}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.Skipper = csrf.WithoutCookies(auth.AccessCookie, auth.RefreshCookie)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
		}),
		loggingmw.RequestLogger(log),
		auth.SessionMiddleware(auth.CookieConfig{Secure: cfg.CookieSecure}),
		auth.JWT(cfg.JWTAccessSecret),
		auth.Caller(store),
		csrf.Middleware(csrfCfg),
	)

	httpserver.Register(e, &httpserver.Deps{
		DB:      gdb,
		Schema:  schema,
		Catalog: catalog,
		Policy:  policy,
		Media:   media,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-quit:
		log.Info("shutting_down")
	case serveErr = <-errCh:
		log.Error("http_server", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown", "error", err)
	}
	if serveErr != nil {
		return fmt.Errorf("http_server: %w", serveErr)
	}
	return nil
}
