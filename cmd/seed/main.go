package main

import (
	"context"
	"time"

	"github.com/codecat1111/radar-clone/internal/seed"
	"github.com/codecat1111/radar-clone/pkg/config"
	"github.com/codecat1111/radar-clone/pkg/database"
	"github.com/codecat1111/radar-clone/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	var data *seed.Data
	if cfg.Seed.File != "" {
		log.Info("Loading seed file", zap.String("file", cfg.Seed.File))
		data, err = seed.ReadFile(cfg.Seed.File)
	} else {
		data, err = seed.Default()
	}
	if err != nil {
		log.Fatal("Failed to load seed data", zap.Error(err))
	}

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := seed.Run(ctx, database.GetDB(), data, log)
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	log.Info("Database seeded",
		zap.Int("domains", res.Domains),
		zap.Int("tags", res.Tags),
		zap.Int("technologies", res.Technologies),
		zap.Int("benefits", res.Benefits),
		zap.Int("risks", res.Risks),
		zap.Int("workflows", res.Workflows),
		zap.Int("metrics", res.Metrics))
}
