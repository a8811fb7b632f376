package database

import (
	"fmt"

	"ai-admissions-be/internal/model"

	"gorm.io/gorm"
)

// Migrate enables pgvector and creates the contacts and document chunk
// tables.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable vector extension: %w", err)
	}
	if err := db.AutoMigrate(&model.Contact{}, &model.DocumentChunk{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
