// Package dbtest provides databases for tests: an in-memory SQLite database
// and throwaway MariaDB/PostgreSQL containers.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/lookout/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenMemory creates a migrated in-memory SQLite database that lives for the test
func OpenMemory(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), logger.Silent)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// every connection would get its own empty database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
