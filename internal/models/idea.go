package models

import "time"

// IdeaStatus captures the approval state of an idea.
type IdeaStatus string

const (
	// IdeaStatusPending marks an idea awaiting approval.
	IdeaStatusPending IdeaStatus = "pending"
	// IdeaStatusApproved marks an idea students may report progress on.
	IdeaStatusApproved IdeaStatus = "approved"
	// IdeaStatusRejected marks a declined idea.
	IdeaStatusRejected IdeaStatus = "rejected"
)

// Idea is a project proposal owned by a student.
type Idea struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Status      IdeaStatus `gorm:"size:32;not null;default:pending;index" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AcceptsProgressFrom reports whether the student may submit progress on the idea.
func (i Idea) AcceptsProgressFrom(studentID uint) bool {
	return i.OwnerID == studentID && i.Status == IdeaStatusApproved
}
