package db

import (
	"context"

	"minesweeper/internal/config"
	"minesweeper/internal/logger"
	"minesweeper/internal/repository"
	"minesweeper/internal/repository/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(dsn string) *pgxpool.Pool {
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return db
}

// OpenStore opens the backend selected by cfg.Storage.
func OpenStore(cfg *config.Config) repository.Store {
	if cfg.Storage == config.StorageSQLite {
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("failed to open sqlite database", "path", cfg.SQLitePath, "error", err)
		}
		logger.Info("sqlite database opened", "path", cfg.SQLitePath)
		return store
	}
	return repository.NewPostgresStore(Connect(cfg.DatabaseURL))
}
