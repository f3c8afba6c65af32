package dto

import (
	"time"

	"github.com/noah-isme/ideabank-api/internal/models"
)

// NotificationCreateRequest describes a notification the workflow wants delivered.
type NotificationCreateRequest struct {
	UserID  uint   `json:"user_id" validate:"required"`
	Type    string `json:"type" validate:"required,max=64"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// NotificationListQuery holds the list filters accepted from clients.
type NotificationListQuery struct {
	UnreadOnly bool `query:"unread"`
	Limit      int  `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int  `query:"offset" validate:"omitempty,min=0"`
}

// NotificationResponse represents notification data returned to clients.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification model to DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		Type:      model.Type,
		Message:   model.Message,
		Read:      model.Read,
		CreatedAt: model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice to DTOs.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewNotificationResponse(item))
	}
	return out
}
