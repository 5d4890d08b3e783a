package repository

import (
	"fmt"

	"gorm.io/gorm"

	"learningpal/internal/model"
)

// AutoMigrate creates or updates the tables owned by this service.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.LearningSession{}, &model.GenerationEvent{}); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}
