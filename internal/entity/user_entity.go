// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "super_admin"

	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

var roleRank = map[UserRole]int{
	UserRoleUser:       1,
	UserRoleAdmin:      2,
	UserRoleSuperAdmin: 3,
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries every capability of min.
// Unknown roles satisfy nothing.
func (r UserRole) AtLeast(min UserRole) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[min]
}

// IsElevated is true for admin and super_admin.
func (r UserRole) IsElevated() bool {
	return r.AtLeast(UserRoleAdmin)
}

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusBanned
}

type User struct {
	Id               uuid.UUID
	Username         string
	Email            string
	PasswordHash     *string // nil for accounts imported before hashing existed
	Role             UserRole
	IsActive         bool
	RecognitionCount int
	LastLogin        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (u *User) Status() UserStatus {
	if u.IsActive {
		return UserStatusActive
	}
	return UserStatusBanned
}

// HasPassword is false for legacy rows that still need a hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
