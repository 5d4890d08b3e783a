package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"learningpal/internal/model"
)

// LearningSessionRepository scopes every read and delete by owner, so a
// session owned by someone else looks exactly like a missing one.
type LearningSessionRepository struct {
	db *gorm.DB
}

func NewLearningSessionRepository(db *gorm.DB) *LearningSessionRepository {
	return &LearningSessionRepository{db: db}
}

func (r *LearningSessionRepository) Create(ctx context.Context, session *model.LearningSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create learning session failed: %w", err)
	}
	return nil
}

func (r *LearningSessionRepository) GetByIDAndUserID(ctx context.Context, sessionID string, userID uint) (*model.LearningSession, error) {
	var session model.LearningSession
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get learning session failed: %w", err)
	}
	return &session, nil
}

// ListSummariesByUserID returns the user's sessions, newest first.
func (r *LearningSessionRepository) ListSummariesByUserID(ctx context.Context, userID uint) ([]model.SessionSummary, error) {
	summaries := make([]model.SessionSummary, 0)
	err := r.db.WithContext(ctx).
		Model(&model.LearningSession{}).
		Select("session_id", "topic", "learning_style", "created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("session_id DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list learning sessions failed: %w", err)
	}
	return summaries, nil
}

// DeleteByIDAndUserID reports whether a row was removed.
func (r *LearningSessionRepository) DeleteByIDAndUserID(ctx context.Context, sessionID string, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&model.LearningSession{})
	if result.Error != nil {
		return false, fmt.Errorf("delete learning session failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
