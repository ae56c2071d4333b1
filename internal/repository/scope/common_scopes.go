package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// NewestFirst orders history style rows by their calendar date, then by
// insertion time within a day.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("date DESC").Order("created_at DESC")
}
