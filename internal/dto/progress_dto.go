package dto

import (
	"time"

	"github.com/noah-isme/ideabank-api/internal/models"
)

// ProgressSubmitRequest is the payload a student sends to report progress on an idea.
type ProgressSubmitRequest struct {
	IdeaID          uint   `json:"idea_id"`
	CurrentStage    string `json:"current_stage" validate:"required,max=64"`
	Description     string `json:"description" validate:"required,max=5000"`
	ProgressPercent *int   `json:"progress_percent" validate:"required,min=0,max=100"`
}

// ProgressReviewRequest is the payload a mentor sends when reviewing an update.
type ProgressReviewRequest struct {
	MentorRemark string `json:"mentor_remark" validate:"max=5000"`
	Status       string `json:"status" validate:"required,max=32"`
}

// ProgressIdea is the idea summary attached to progress responses.
type ProgressIdea struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ProgressStudent is the student summary attached to progress responses.
type ProgressStudent struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProgressResponse is the serialized representation of a progress update.
type ProgressResponse struct {
	ID              uint             `json:"id"`
	IdeaID          uint             `json:"idea_id"`
	StudentID       uint             `json:"student_id"`
	CurrentStage    string           `json:"current_stage"`
	Description     string           `json:"description"`
	MentorRemark    string           `json:"mentor_remark,omitempty"`
	Status          string           `json:"status"`
	ProgressPercent int              `json:"progress_percent"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Idea            *ProgressIdea    `json:"idea,omitempty"`
	Student         *ProgressStudent `json:"student,omitempty"`
}

// NewProgressResponse converts a model into a DTO, attaching the idea title and student
// name when they were preloaded.
func NewProgressResponse(model models.IdeaProgress) ProgressResponse {
	response := ProgressResponse{
		ID:              model.ID,
		IdeaID:          model.IdeaID,
		StudentID:       model.StudentID,
		CurrentStage:    model.CurrentStage,
		Description:     model.Description,
		MentorRemark:    model.MentorRemark,
		Status:          string(model.Status),
		ProgressPercent: model.ProgressPercent,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.Idea != nil {
		response.Idea = &ProgressIdea{ID: model.Idea.ID, Title: model.Idea.Title}
	}
	if model.Student != nil {
		response.Student = &ProgressStudent{ID: model.Student.ID, Name: model.Student.Name}
	}
	return response
}

// NewProgressDetailResponse is NewProgressResponse plus the idea description.
func NewProgressDetailResponse(model models.IdeaProgress) ProgressResponse {
	response := NewProgressResponse(model)
	if model.Idea != nil {
		response.Idea.Description = model.Idea.Description
	}
	return response
}

// NewProgressResponseSlice converts a slice of models into DTOs.
func NewProgressResponseSlice(items []models.IdeaProgress) []ProgressResponse {
	out := make([]ProgressResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewProgressResponse(item))
	}
	return out
}
