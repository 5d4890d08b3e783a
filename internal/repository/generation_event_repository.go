package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"learningpal/internal/model"
)

type GenerationEventRepository struct {
	db *gorm.DB
}

func NewGenerationEventRepository(db *gorm.DB) *GenerationEventRepository {
	return &GenerationEventRepository{db: db}
}

func (r *GenerationEventRepository) Create(ctx context.Context, event *model.GenerationEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create generation event failed: %w", err)
	}
	return nil
}

func (r *GenerationEventRepository) ListBySessionID(ctx context.Context, sessionID string) ([]model.GenerationEvent, error) {
	var events []model.GenerationEvent
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list generation events failed: %w", err)
	}
	return events, nil
}
