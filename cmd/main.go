package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codecat1111/radar-clone/internal/server"
	"github.com/codecat1111/radar-clone/internal/service"
	"github.com/codecat1111/radar-clone/pkg/cache"
	"github.com/codecat1111/radar-clone/pkg/config"
	"github.com/codecat1111/radar-clone/pkg/database"
	"github.com/codecat1111/radar-clone/pkg/logger"
	"github.com/codecat1111/radar-clone/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting technology radar service...", cfg.LogConfig()...)

	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", cfg.Metrics.Prefix))

	// Initialize database (includes migrations)
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()
	log.Info("Database connection established and migrations completed")

	var filterCache service.Cache
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedis(cfg.Cache)
		if err != nil {
			log.Warn("Redis unavailable, filter options will not be cached", zap.Error(err))
		} else {
			defer rc.Close()
			filterCache = rc
			log.Info("Redis cache connected", zap.String("addr", cfg.Cache.RedisAddr))
		}
	}

	e := server.New(cfg, server.Services{
		Technologies: service.NewTechnologyService(db, log),
		Filters:      service.NewFilterService(db, log, filterCache),
		Ping:         func(ctx context.Context) error { return database.Ping(ctx, db) },
	})

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
}
