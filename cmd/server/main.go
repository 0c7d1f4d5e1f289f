package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "freelancehub/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"freelancehub/internal/auth"
	"freelancehub/internal/cache"
	"freelancehub/internal/config"
	"freelancehub/internal/db"
	"freelancehub/internal/handler"
	"freelancehub/internal/logging"
	"freelancehub/internal/repository"
	"freelancehub/internal/router"
	"freelancehub/internal/service"
	"freelancehub/internal/storage"
	"freelancehub/internal/tracking"
)

// @title FreelanceHub API
// @version 1.0
// @description Freelance marketplace API: accounts, profiles, skills and task postings with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg := config.Load()
	logger := logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	tracker := tracking.New(cfg.SentryDSN, cfg.SentryEnvironment)
	defer tracker.Close()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("storage init: %w", err)
	}

	// Initialize repositories
	repos := repository.NewRepositories(gormDB)
	transactor := repository.NewTransactor(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(transactor, repos.Accounts, jwtService, tokenStore)
	accountService := service.NewAccountService(repos.Accounts, cacheClient)
	profileService := service.NewProfileService(transactor, repos, accountService, store, cfg.MaxAvatarBytes)
	skillService := service.NewSkillService(repos.Skills, cacheClient)
	taskService := service.NewTaskService(repos.Tasks, repos.Accounts)

	// Initialize handlers
	media := handler.NewMediaResolver(store)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, media),
		User:    handler.NewUserHandler(accountService, media),
		Profile: handler.NewProfileHandler(profileService, media),
		Skill:   handler.NewSkillHandler(skillService),
		Task:    handler.NewTaskHandler(taskService, media),
		Health:  handler.NewHealthHandler(gormDB, cacheClient),
	}, auth.Middleware(jwtService, tokenStore), tracker)

	logger.Info("swagger documentation available", "url", swaggerURL(cfg))

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      e,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down gracefully")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "addr", srv.Addr, "db_driver", cfg.DBDriver, "storage", cfg.StorageBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server start: %w", err)
	}

	<-done
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	slog.Info("graceful shutdown complete")
	return nil
}

func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.StorageBackend == "minio" {
		store, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %q: %w", cfg.MinioBucket, err)
		}
		return store, nil
	}
	return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
