package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username         string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email            string     `gorm:"type:varchar(120);not null;default:''"`
	PasswordHash     *string    `gorm:"type:varchar(255)"`
	Role             string     `gorm:"type:varchar(20);not null;default:'user';index"`
	IsActive         bool       `gorm:"not null;default:true"`
	RecognitionCount int        `gorm:"not null;default:0"`
	LastLogin        *time.Time `gorm:"index"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
