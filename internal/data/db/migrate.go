package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Berguit/topical-map-app/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.ProjectRecord{},
		&domain.GenerationRun{},
	)
}

// EnsureIndexes adds the composite indexes AutoMigrate cannot express.
func EnsureIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_generation_run_project_started
		ON generation_run (project_id, started_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_generation_run_project_started: %w", err)
	}
	return nil
}
