package models

import "time"

// Notification is a message addressed to a single user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:64" json:"type"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notification types emitted by the progress workflow.
const (
	NotificationTypeProgressSubmitted = "progress_submitted"
	NotificationTypeProgressReviewed  = "progress_reviewed"
	NotificationTypeReviewReminder    = "review_reminder"
)
