package main

import (
	"fmt"

	"github.com/pawmart/backend/internal/infrastructure/config"
	"github.com/pawmart/backend/internal/infrastructure/logger"
	"github.com/pawmart/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// appContext carries the shared dependencies every pawctl command needs.
type appContext struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

// boot loads configuration, builds a console logger, and connects to the
// database. Callers must Close the returned context.
func boot() (*appContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &appContext{cfg: cfg, log: log, db: db}, nil
}

func (a *appContext) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Error("Error closing database", zap.Error(err))
	}
	_ = a.log.Sync()
}
