package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/geosolve/internal/api"
	"github.com/Harshitk-cp/geosolve/internal/buildconfig"
	"github.com/Harshitk-cp/geosolve/internal/config"
	"github.com/Harshitk-cp/geosolve/internal/service"
	"github.com/Harshitk-cp/geosolve/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Persistence is optional: without DATABASE_URL solutions are not stored.
	var pool *pgxpool.Pool
	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		n, err := store.Migrate(ctx, pool, config.MigrationsPath())
		if err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Int("files", n))
	} else {
		logger.Warn("DATABASE_URL not set, solutions will not be persisted")
	}

	app := api.NewApp(pool, logger)

	var expirer *service.ExpirerService
	if pool != nil && config.SolutionRetention() > 0 {
		expirer = service.NewExpirerService(store.NewSolutionStore(pool), config.SolutionRetention(), logger.Named("expirer"))
		expirer.Start()
	}

	stopCleanup := make(chan struct{})
	app.RateLimiter.StartCleanup(10*time.Minute, stopCleanup)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("version", buildconfig.Version()),
			zap.Int("max_iterations", config.MaxIterations()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")
	close(stopCleanup)
	if expirer != nil {
		expirer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
