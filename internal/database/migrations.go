package database

import (
	"github.com/wendydelivery/wendy-courier/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.Conversation{},
		&models.ChatMessage{},
		&models.Rating{},
		&models.CourierLocation{},
	)
	if err != nil {
		return err
	}

	// Older deployments stored ratings without a type column
	if db.Migrator().HasTable(&models.Rating{}) {
		if err := db.Exec(`ALTER TABLE ratings ADD COLUMN IF NOT EXISTS rating_type text DEFAULT 'customer_service'`).Error; err != nil {
			return err
		}
	}

	return nil
}
