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

	"github.com/joho/godotenv"

	"github.com/legaltech/case-management/internal/api"
	"github.com/legaltech/case-management/internal/api/metrics"
	"github.com/legaltech/case-management/internal/core/service"
	"github.com/legaltech/case-management/internal/infrastructure/db/memory"
	redisstore "github.com/legaltech/case-management/internal/infrastructure/db/redis"
	"github.com/legaltech/case-management/internal/infrastructure/queue"
	"github.com/legaltech/case-management/internal/infrastructure/security"
	"github.com/legaltech/case-management/internal/infrastructure/storage"
	"github.com/legaltech/case-management/internal/pkg/config"
	"github.com/legaltech/case-management/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "case-management",
	})

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewJWTIssuer(security.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})

	store := memory.New()
	if cfg.SeedDemo {
		if err := memory.Seed(ctx, store, hasher); err != nil {
			return err
		}
		log.Info().Str("admin", memory.DemoAdminEmail).Str("lawyer", memory.DemoLawyerEmail).Msg("demo data seeded")
	}

	files, err := storage.New(ctx, storage.Config{
		Driver:            storage.Driver(cfg.Storage.Driver),
		LocalPath:         cfg.Storage.LocalPath,
		S3Bucket:          cfg.Storage.S3Bucket,
		S3Region:          cfg.Storage.S3Region,
		S3Endpoint:        cfg.Storage.S3Endpoint,
		S3PathStyle:       cfg.Storage.S3PathStyle,
		S3AccessKeyID:     cfg.Storage.S3AccessKeyID,
		S3SecretAccessKey: cfg.Storage.S3SecretAccessKey,
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	cleaner := queue.NewDispatcher(cfg.Cleanup.Workers, files, logger.Component("file_cleanup"),
		queue.WithObserver(metrics.ObserveCleanup))
	cleaner.Start(ctx)
	defer cleaner.Close()

	deps := api.Deps{
		Tokens:       tokens,
		Logger:       logger.Component("http"),
		MaxBodyBytes: cfg.Upload.MaxBytes,
	}
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Redis = rdb
		deps.Limiter = redisstore.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		log.Info().Str("addr", cfg.Redis.Addr).Int("requests", cfg.RateLimit.Requests).Dur("window", cfg.RateLimit.Window).Msg("rate limiting enabled")
	}

	services := api.Services{
		Auth:    service.NewAuthService(store.Users(), hasher, tokens, logger.Component("auth_service")),
		Cases:   service.NewCaseService(store.Cases(), store.TimeEntries(), logger.Component("case_service")),
		Entries: service.NewTimeEntryService(store.Cases(), store.TimeEntries(), logger.Component("time_entry_service")),
		Documents: service.NewDocumentService(store.Cases(), store.Documents(), files, cleaner, service.DocumentConfig{
			MaxBytes:         cfg.Upload.MaxBytes,
			AllowedMimeTypes: cfg.Upload.AllowedMimeTypes,
		}, logger.Component("document_service")),
		Users: service.NewUserService(store.Users(), hasher, logger.Component("user_service")),
	}

	e := api.NewRouter(services, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("shutdown complete")
	return nil
}
