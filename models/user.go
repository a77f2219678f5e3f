package models

import (
	"time"
)

// StartingCoinBalance is granted to every user at registration.
const StartingCoinBalance int64 = 10

// User owns photos and a coin balance. The balance is mutated only through
// the ledger service, never by direct handler writes.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	// No column default: the grant comes from RegisterUser so a zero balance
	// written on create stays zero.
	Coins        int64     `json:"coins" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Photos []Photo `json:"photos,omitempty" gorm:"foreignKey:UserID"`
}

// UserStatistics is the dashboard summary for one user.
type UserStatistics struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	PhotosUploaded int64  `json:"photos_uploaded"`
	Submissions    int64  `json:"submissions"`
	VotesCast      int64  `json:"votes_cast"`
	VotesReceived  int64  `json:"votes_received"`
	Coins          int64  `json:"coins"`
}
