// Package dbtest opens throwaway sqlite databases for package tests.
package dbtest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/emilythestrangee/yatube/internal/database"
)

// New returns a migrated in-memory database that lives as long as the test.
func New(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := database.Open(sqlite.Open("file::memory:?_foreign_keys=on"), gormlogger.Silent)
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// Every connection to :memory: is a separate database, so pin the pool to one.
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
