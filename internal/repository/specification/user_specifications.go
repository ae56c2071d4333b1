package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByUsername struct {
	Username string
}

// Apply matches case-sensitively.
func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

type RoleIn struct {
	Roles []string
}

func (s RoleIn) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Roles) == 0 {
		return db
	}
	return db.Where("role IN ?", s.Roles)
}

type ActiveSince struct {
	Since time.Time
}

func (s ActiveSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("last_login >= ? OR recognition_count > 0", s.Since)
}

type WithoutPassword struct{}

func (s WithoutPassword) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("password_hash IS NULL OR password_hash = ''")
}
