package model

import (
	"time"

	"github.com/google/uuid"
)

type History struct {
	Id            string     `gorm:"type:varchar(32);primaryKey"`
	RecognitionId string     `gorm:"type:varchar(64);index"`
	UserId        *uuid.UUID `gorm:"type:uuid;index"`
	Date          time.Time  `gorm:"type:date;not null;index"`
	ImageUrl      string     `gorm:"type:varchar(500);not null"`
	DiseaseName   string     `gorm:"type:varchar(100);not null"`
	Confidence    float64    `gorm:"type:numeric(5,2);not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index"`
}

func (History) TableName() string {
	return "history"
}

type RecognitionDetail struct {
	Id            string     `gorm:"type:varchar(64);primaryKey"`
	UserId        *uuid.UUID `gorm:"type:uuid;index"`
	DiseaseName   string     `gorm:"type:varchar(100);not null"`
	Confidence    float64    `gorm:"type:numeric(5,2);not null"`
	Description   *string    `gorm:"type:text"`
	Cause         *string    `gorm:"type:text"`
	SolutionTitle *string    `gorm:"type:varchar(200)"`
	SolutionSteps *string    `gorm:"type:text"` // JSON array, or newline separated text in older rows
	ImageUrl      string     `gorm:"type:varchar(500);not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
}

func (RecognitionDetail) TableName() string {
	return "recognition_details"
}

// All lists every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&KnowledgeBase{},
		&Feedback{},
		&History{},
		&RecognitionDetail{},
	}
}
