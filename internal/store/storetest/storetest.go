// Package storetest opens throwaway sqlite databases for tests.
package storetest

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/spigell/lexnorm/internal/config"
	"github.com/spigell/lexnorm/internal/store"
)

// New returns a migrated sqlite database living in the test's temp dir.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := store.Open(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "lexnorm.db"),
		AutoMigrate: true,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
