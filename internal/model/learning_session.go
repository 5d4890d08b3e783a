package model

import (
	"time"

	"gorm.io/datatypes"

	"learningpal/internal/learning"
)

// LearningSession is one persisted generation request. Rows are written once
// and only ever read or deleted afterwards.
type LearningSession struct {
	SessionID       string                                `gorm:"primaryKey;size:36" json:"session_id"`
	UserID          uint                                  `gorm:"not null;index" json:"user_id"`
	Topic           string                                `gorm:"size:500;not null" json:"topic"`
	Goal            string                                `gorm:"type:text;not null" json:"goal"`
	Level           string                                `gorm:"size:100;not null" json:"level"`
	LearningStyle   string                                `gorm:"size:32;not null" json:"learning_style"`
	SourceDocument  string                                `gorm:"type:text" json:"source_document,omitempty"`
	Content         datatypes.JSONType[learning.Material] `gorm:"not null" json:"content"`
	GeneratedAt     time.Time                             `gorm:"not null" json:"generated_at"`
	GenerationError bool                                  `gorm:"not null;default:false" json:"generation_error"`
	RecoveryStage   string                                `gorm:"size:16;not null" json:"recovery_stage"`
	CreatedAt       time.Time                             `gorm:"index" json:"created_at"`
}

// NewLearningSession builds the row for a finished generation.
func NewLearningSession(id string, userID uint, in learning.LearnerInputs, g learning.Generated) *LearningSession {
	return &LearningSession{
		SessionID:       id,
		UserID:          userID,
		Topic:           in.Topic,
		Goal:            in.Goal,
		Level:           in.Level,
		LearningStyle:   string(in.LearningStyle),
		SourceDocument:  in.SourceDocument,
		Content:         datatypes.NewJSONType(g.Content),
		GeneratedAt:     g.Timestamp,
		GenerationError: g.Error,
		RecoveryStage:   string(g.Stage),
	}
}

func (s *LearningSession) Inputs() learning.LearnerInputs {
	return learning.LearnerInputs{
		Topic:          s.Topic,
		Goal:           s.Goal,
		Level:          s.Level,
		LearningStyle:  learning.LearningStyle(s.LearningStyle),
		SourceDocument: s.SourceDocument,
	}
}

func (s *LearningSession) Generated() learning.Generated {
	return learning.Generated{
		Type:      learning.MaterialType,
		Content:   s.Content.Data(),
		Timestamp: s.GeneratedAt,
		Error:     s.GenerationError,
		Stage:     learning.Stage(s.RecoveryStage),
	}
}

// SessionSummary is the list view of a LearningSession.
type SessionSummary struct {
	SessionID     string    `json:"session_id"`
	Topic         string    `json:"topic"`
	LearningStyle string    `json:"learning_style"`
	CreatedAt     time.Time `json:"created_at"`
}
