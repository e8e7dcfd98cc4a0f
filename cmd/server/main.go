package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"sinarabadi/backend/internal/cache"
	"sinarabadi/backend/internal/config"
	"sinarabadi/backend/internal/domain"
	"sinarabadi/backend/internal/httpapi"
	"sinarabadi/backend/internal/report"
	"sinarabadi/backend/internal/service"
	"sinarabadi/backend/internal/snapshot"
	"sinarabadi/backend/internal/store/memory"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid security configuration")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := memory.NewSeeded(seedCredentials(cfg, logger))
	logger.Info().Msg("repository: in-memory")

	closers := make([]func() error, 0, 2)

	var archiver snapshot.Archiver
	if cfg.SnapshotDSN != "" {
		pg, err := snapshot.NewPostgres(ctx, cfg.SnapshotDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres unavailable and SNAPSHOT_DSN is set; refusing to start with the stub archiver")
		}
		archiver = pg
		closers = append(closers, pg.Close)
		logger.Info().Msg("archiver: postgres")
	} else {
		archiver = snapshot.NewStub(time.Duration(cfg.SnapshotDelayMS)*time.Millisecond, logger)
		logger.Info().Msg("archiver: stub")
	}

	cacheStore := cache.ReportCache(cache.NoopReportCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, using noop cache")
		} else {
			cacheStore = redisCache
			closers = append(closers, redisCache.Close)
			logger.Info().Msg("cache: redis")
		}
	} else {
		logger.Info().Msg("cache: noop")
	}

	reports := report.NewAggregator(repo, cacheStore, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second, logger)
	svc := service.New(repo, archiver, logger)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	api := httpapi.New(svc, reports, auth, cfg.AllowedOrigin, logger)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Address()).Msg("back-office listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error().Err(err).Msg("close error")
		}
	}

	logger.Info().Msg("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}

func seedCredentials(cfg config.Config, logger zerolog.Logger) domain.Credentials {
	if cfg.StorePassword == config.DefaultStorePassword {
		logger.Warn().Msg("using default store credentials; set STORE_USERNAME and STORE_PASSWORD")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.StorePassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to hash store password")
	}
	return domain.Credentials{Username: cfg.StoreUsername, PasswordHash: string(hash)}
}
