package models

import (
	"time"
)

// Submission statuses. Approved/Rejected are set by moderation; only
// Approved submissions are eligible for ranking and payout.
const (
	SubmissionPending  = "Pending"
	SubmissionApproved = "Approved"
	SubmissionRejected = "Rejected"
)

// Submission binds a photo to a contest. The (photo, contest) pair is unique;
// the index is the backstop for races, the gate checks first.
type Submission struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	PhotoID     string    `json:"photo_id" gorm:"not null;uniqueIndex:idx_photo_contest"`
	ContestID   string    `json:"contest_id" gorm:"not null;uniqueIndex:idx_photo_contest;index"`
	Status      string    `json:"status" gorm:"default:'Pending'"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`

	Photo   Photo   `json:"photo,omitempty" gorm:"foreignKey:PhotoID"`
	Contest Contest `json:"contest,omitempty" gorm:"foreignKey:ContestID"`
}
