package models

import (
	"time"
)

// Vote is immutable once created. The (user, photo, contest) unique index is
// the race backstop; the vote gate enforces the business rules first.
type Vote struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_photo_contest"`
	PhotoID   string    `json:"photo_id" gorm:"not null;uniqueIndex:idx_user_photo_contest;index"`
	ContestID string    `json:"contest_id" gorm:"not null;uniqueIndex:idx_user_photo_contest;index"`
	VotedAt   time.Time `json:"voted_at" gorm:"autoCreateTime"`

	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Photo   Photo   `json:"photo,omitempty" gorm:"foreignKey:PhotoID"`
	Contest Contest `json:"contest,omitempty" gorm:"foreignKey:ContestID"`
}
