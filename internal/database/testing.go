package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/hoops-edge/internal/config"
)

// TestConfigEnv names the config file used by integration tests. Tests that
// need a database skip when it is unset.
const TestConfigEnv = "HOOPS_EDGE_TEST_CONFIG"

// SetupTestDB creates a test database connection and verifies it
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("integration test - set %s to a config with a reachable database", TestConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return db
}

// TeardownTestDB removes rows written by a test run and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, "DELETE FROM predictions WHERE game_id LIKE 'test-%'"); err != nil {
		t.Logf("warning: failed to clean test rows: %v", err)
	}
	db.Close()
}
