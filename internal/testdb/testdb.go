// Package testdb opens an isolated, migrated and seeded in-memory database per test.
package testdb

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/vnkhanh/questions-server/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// one connection keeps the memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.SeedReferenceData(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}
