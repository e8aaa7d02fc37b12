package database

import (
	"fmt"

	"artfolio/internal/models"

	"gorm.io/gorm"
)

// registry lists every persisted model in dependency order. AutoMigrate
// creates parents before the join tables that reference them.
func registry() []any {
	return []any{
		&models.User{},
		&models.Post{},
		&models.Friendship{},
		&models.Like{},
		&models.Bookmark{},
		&models.Comment{},
		&models.Folder{},
		&models.FolderItem{},
		&models.Notification{},
	}
}

// Migrate applies the schema for all registered models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(registry()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
