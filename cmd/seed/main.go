package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pulseboard/internal/config"
	"pulseboard/internal/db"
	"pulseboard/internal/model"
	"pulseboard/internal/repository"
	"pulseboard/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.DataEntry{}); err != nil {
		logger.Fatal("auto-migrate", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(gormDB)
	entryRepo := repository.NewEntryRepository(gormDB)

	created, err := seed.Demo(context.Background(), userRepo, entryRepo)
	if err != nil {
		logger.Fatal("seed demo data", zap.Error(err))
	}

	logger.Info("seed completed", zap.Int("entries_created", created))
}
