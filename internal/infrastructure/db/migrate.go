// Package db opens the Postgres connections and keeps the schema current.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/geritapp/gerit/internal/infrastructure/db/models"
)

// Open connects gorm and a pgx pool to the same database.
func Open(ctx context.Context, url string, maxOpenConns int, log *logrus.Logger) (*gorm.DB, *pgxpool.Pool, error) {
	level := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}

	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.New(log, logger.Config{LogLevel: level, IgnoreRecordNotFoundError: true}),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}
	if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return gdb, pool, nil
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&models.ImportJob{}, &models.ImportJobFailure{}, &models.EntityRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
