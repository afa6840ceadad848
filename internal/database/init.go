package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/config"
)

// Initialize creates a database connection pool and verifies the predictions
// table exists
func Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = db.pool.QueryRow(ctx, "SELECT to_regclass('public.predictions') IS NOT NULL").Scan(&exists)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check schema: %w", err)
	}
	if !exists {
		db.Close()
		return nil, fmt.Errorf(
			"predictions table not found, apply migrations first: " +
				"migrate -path migrations -database \"your_dsn\" up",
		)
	}

	logger.WithFields(logrus.Fields{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Name,
	}).Info("Database initialized")

	return db, nil
}
