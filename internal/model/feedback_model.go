package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Feedback struct {
	Id           uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       *uuid.UUID                  `gorm:"type:uuid;index"`
	Username     string                      `gorm:"type:varchar(64);not null;default:''"`
	Text         string                      `gorm:"type:text;not null"`
	Contact      *string                     `gorm:"type:varchar(200)"`
	FeedbackType string                      `gorm:"type:varchar(30);not null;default:'general';index"`
	ImageUrls    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Status       string                      `gorm:"type:varchar(20);not null;default:'new'"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
