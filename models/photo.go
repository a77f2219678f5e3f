package models

import (
	"time"
)

// Photo is created only as a side effect of a successful contest submission.
type Photo struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"not null"`
	FilePath   string    `json:"file_path" gorm:"not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`

	User        User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:PhotoID"`
}
