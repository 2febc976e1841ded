package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentalhub/rental-api/internal/api"
	"github.com/rentalhub/rental-api/internal/api/middleware"
	"github.com/rentalhub/rental-api/internal/core/guard"
	"github.com/rentalhub/rental-api/internal/core/service"
	mongostore "github.com/rentalhub/rental-api/internal/infrastructure/db/mongo"
	redisstore "github.com/rentalhub/rental-api/internal/infrastructure/db/redis"
	"github.com/rentalhub/rental-api/internal/infrastructure/http/handlers"
	"github.com/rentalhub/rental-api/internal/infrastructure/queue"
	"github.com/rentalhub/rental-api/internal/pkg/config"
	"github.com/rentalhub/rental-api/internal/pkg/credentials"
	"github.com/rentalhub/rental-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title        Rental API
// @version      1.0
// @description  Session, navigation guard and cart service for equipment and meeting-room rentals.
// @BasePath     /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rental-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "rental-api",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting")

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "rental-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	store := mongostore.NewRecordStore(db)
	users := mongostore.NewUserRepository(store)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("user indexes not ensured")
	}
	catalog := mongostore.NewCatalogRepository(store)
	rentals := mongostore.NewRentalRepository(store)

	storage := redisstore.NewLocalStorage(rdb, cfg.Session.TTL)
	dispatcher := queue.NewDispatcher(cfg.Session.PersistWorkers, storage, log)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	sessions := service.NewSessionService(users, storage, dispatcher, credentials.NewDigester(cfg.Session.PasswordPepper), log)
	carts := service.NewCartService(catalog, rentals, log)

	sweeper := queue.NewSweeper(cfg.Session.IdleTTL, cfg.Session.SweepInterval, map[string]queue.Evicter{
		"sessions": sessions,
		"carts":    carts,
	}, log)
	sweeper.Start(workerCtx)

	e := api.NewRouter(api.Dependencies{
		Sessions: sessions,
		Carts:    carts,
		Catalog:  service.NewCatalogService(catalog),
		Routes:   guard.NewTable(guard.DefaultRoutes),
		Tokens:   middleware.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL),
		HealthChecks: map[string]handlers.Check{
			"mongodb": func(ctx context.Context) error { return mongostore.Ping(ctx, db) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		SecureCookie: cfg.IsProduction(),
		Logger:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			stopWorkers()
			dispatcher.Close()
			sweeper.Wait()
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	// Pending durable writes are flushed before the stores are closed.
	dispatcher.Close()
	stopWorkers()
	sweeper.Wait()

	log.Info().Msg("stopped")
	return nil
}
