package repository

import (
	"path/filepath"
	"testing"

	"github.com/reachradar/reachradar/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database with the same GORM settings
// the production initializer uses.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.Influencer{},
		&domain.Post{},
		&domain.ScrapJob{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
