// Package storagetest opens throwaway databases for tests.
package storagetest

import (
	"os"
	"testing"

	"gorm.io/gorm"

	"PolicyPal/internal/config"
	"PolicyPal/internal/infrastructure/storage"
)

// DB returns a migrated in-memory SQLite database, or the Postgres database
// named by TEST_POSTGRES_DSN when set (tables are reset first).
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		cfg = config.DatabaseConfig{Driver: "postgres", DSN: dsn}
	}

	db, err := storage.Open(cfg)
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := storage.Reset(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
