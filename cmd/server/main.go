package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/anonto42/futsal-matcher/backend/internal/auth"
	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/router"
	"github.com/anonto42/futsal-matcher/backend/pkg/config"
	"github.com/anonto42/futsal-matcher/backend/pkg/firebase"
	"github.com/anonto42/futsal-matcher/backend/pkg/logger"
	"github.com/anonto42/futsal-matcher/backend/pkg/metrics"
	"github.com/anonto42/futsal-matcher/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, log); err != nil {
		log.WithError(err).Fatal("Server exited")
	}
}

// run wires the server and blocks until SIGINT/SIGTERM. Deferred cleanup runs on
// every return path.
func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	// Initialize repositories
	opts := router.Options{
		Tokens:       auth.NewTokenManager(cfg.JWTSecret, auth.SessionTTL),
		Log:          log,
		CookieSecure: cfg.CookieSecure,
	}
	var repos *router.Repositories
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		repos = router.NewMemoryRepositories()
	} else {
		db, err := config.InitDB(cfg, log)
		if err != nil {
			return fmt.Errorf("initialize databases: %w", err)
		}
		defer db.CloseDB() // Ensure database connections are closed when run returns

		repos, err = router.NewDatabaseRepositories(ctx, db, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("prepare repositories: %w", err)
		}
		opts.Ping = db.Ping
	}

	// Initialize Firebase. Login with Firebase stays disabled without credentials.
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.WithError(err).Warn("Firebase login disabled")
		} else {
			opts.Firebase = firebaseApp.AuthClient
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	store, err := newStore(ctx, cfg, e)
	if err != nil {
		return fmt.Errorf("initialize file storage: %w", err)
	}
	opts.Store = store

	// Setup global middleware
	config.SetupMiddleware(e, cfg)

	stop := make(chan struct{})
	if cfg.RateLimitRPS > 0 {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
		opts.RateLimiter.StartCleanup(time.Minute, stop)
	}

	// Setup routes and dependencies
	router.SetupRoutes(e, repos, opts)

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	// Start server
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
	case err := <-serveErr:
		runErr = fmt.Errorf("serve: %w", err)
	}
	close(stop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutdown(shutdownCtx, log, e, metricsServer)
	return runErr
}

// newStore picks S3 when a bucket is configured and the local upload directory otherwise.
// Local files are served from /files.
func newStore(ctx context.Context, cfg *config.Config, e *echo.Echo) (storage.Store, error) {
	if cfg.S3Bucket != "" {
		return storage.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
	}
	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	e.Static("/files", filepath.Join(cfg.UploadDir, "uploads"))
	return store, nil
}

func shutdown(ctx context.Context, log logrus.FieldLogger, e *echo.Echo, metricsServer *http.Server) {
	log.Info("Shutting down")
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Metrics server shutdown failed")
	}
}
