package models

import (
	"time"
)

// Contest statuses. Completed and Cancelled are terminal.
const (
	ContestUpcoming  = "Upcoming"
	ContestActive    = "Active"
	ContestCompleted = "Completed"
	ContestCancelled = "Cancelled"
)

// Contest is a time-boxed competition with an entry fee and a prize.
type Contest struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null"`
	StartDate       time.Time `json:"start_date" gorm:"not null"`
	EndDate         time.Time `json:"end_date" gorm:"not null"`
	Status          string    `json:"status" gorm:"default:'Upcoming'"`
	MaxParticipants int       `json:"max_participants" gorm:"default:0"`
	PrizePoints     int64     `json:"prize_points" gorm:"default:0"`
	EntryFee        int64     `json:"entry_fee" gorm:"default:0"`
	Result          *string   `json:"result,omitempty"`
	ManagerID       string    `json:"manager_id"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:ContestID"`

	// Calculated fields (not stored in DB)
	TotalSubmissions int64 `json:"total_submissions,omitempty" gorm:"-"`
	TotalVotes       int64 `json:"total_votes,omitempty" gorm:"-"`
}

// IsTerminal reports whether the contest can no longer change status.
func (c *Contest) IsTerminal() bool {
	return c.Status == ContestCompleted || c.Status == ContestCancelled
}

// WindowOpen reports whether now falls inside the contest window.
func (c *Contest) WindowOpen(now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}
