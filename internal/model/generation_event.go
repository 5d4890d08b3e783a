package model

import "time"

// GenerationEvent records how one model call went. Events are written
// asynchronously by the generation event worker.
type GenerationEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SessionID     string    `gorm:"size:36;not null;index" json:"session_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Provider      string    `gorm:"size:32;not null" json:"provider"`
	Model         string    `gorm:"size:128;not null" json:"model"`
	Stage         string    `gorm:"size:16;not null" json:"stage"`
	Error         bool      `gorm:"not null;default:false" json:"error"`
	LatencyMS     int64     `gorm:"not null" json:"latency_ms"`
	PromptChars   int       `gorm:"not null" json:"prompt_chars"`
	ResponseChars int       `gorm:"not null" json:"response_chars"`
	CreatedAt     time.Time `json:"created_at"`
}
