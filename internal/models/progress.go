package models

import "time"

// ProgressStatus is the review state of a progress update.
type ProgressStatus string

const (
	// ProgressStatusPending is the state of every freshly submitted update.
	ProgressStatusPending ProgressStatus = "Pending"
	// ProgressStatusReviewed marks an accepted update.
	ProgressStatusReviewed ProgressStatus = "Reviewed"
	// ProgressStatusNeedsImprovement marks an update sent back to the student.
	ProgressStatusNeedsImprovement ProgressStatus = "Needs Improvement"
)

// IdeaProgress is a single progress update a student reports against one idea.
//
// UpdatedAt is stamped at creation only; reviews leave it untouched.
type IdeaProgress struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	IdeaID          uint           `gorm:"not null;index" json:"idea_id"`
	StudentID       uint           `gorm:"not null;index" json:"student_id"`
	CurrentStage    string         `gorm:"size:64;not null" json:"current_stage"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	MentorRemark    string         `gorm:"type:text" json:"mentor_remark"`
	Status          ProgressStatus `gorm:"size:32;not null;default:Pending;index" json:"status"`
	ProgressPercent int            `gorm:"not null" json:"progress_percent"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime:false;index" json:"updated_at"`

	Idea    *Idea `gorm:"foreignKey:IdeaID" json:"idea,omitempty"`
	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// TableName pins the table name.
func (IdeaProgress) TableName() string {
	return "idea_progress"
}
