package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/models"
)

// Migrate creates or updates the tables owned by the service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.IdeaProgress{},
		&models.Notification{},
		&models.ActivityLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
