package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"harvesthub/docs"
	"harvesthub/internal/auth"
	"harvesthub/internal/cache"
	"harvesthub/internal/config"
	"harvesthub/internal/db"
	"harvesthub/internal/handler"
	"harvesthub/internal/logger"
	"harvesthub/internal/metrics"
	"harvesthub/internal/repository"
	"harvesthub/internal/router"
	"harvesthub/internal/service"
	"harvesthub/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title HarvestHub API
// @version 1.0
// @description Food donation matching API: users post surplus food listings and partners claim them.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Options{
		ServiceName: "harvesthub",
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	gormDB, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()

	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	listingRepo := repository.NewListingRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	identityService := service.NewIdentityService(userRepo, jwtService, cacheClient)
	listingService := service.NewListingService(listingRepo, store, appMetrics)
	matchService := service.NewMatchService(listingRepo, appMetrics)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, log, registry, identityService, router.Handlers{
		Auth:   handler.NewAuthHandler(identityService),
		User:   handler.NewUserHandler(),
		Food:   handler.NewFoodHandler(listingService),
		Match:  handler.NewMatchHandler(matchService),
		Upload: handler.NewUploadHandler(store),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().
			Str("addr", addr).
			Str("db_driver", cfg.DBDriver).
			Str("storage_driver", cfg.StorageDriver).
			Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
