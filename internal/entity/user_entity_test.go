package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		role UserRole
		min  UserRole
		want bool
	}{
		{UserRoleUser, UserRoleUser, true},
		{UserRoleUser, UserRoleAdmin, false},
		{UserRoleAdmin, UserRoleAdmin, true},
		{UserRoleSuperAdmin, UserRoleAdmin, true},
		{UserRoleAdmin, UserRoleSuperAdmin, false},
		{UserRole("root"), UserRoleUser, false},
		{UserRole(""), UserRoleUser, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+">="+string(tt.min), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.min))
		})
	}
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, UserRoleSuperAdmin.Valid())
	assert.False(t, UserRole("Admin").Valid())
	assert.True(t, UserRoleAdmin.IsElevated())
	assert.False(t, UserRoleUser.IsElevated())
}

func TestUser_PasswordAndStatus(t *testing.T) {
	empty := ""
	hash := "$2a$10$abc"

	assert.False(t, (&User{}).HasPassword())
	assert.False(t, (&User{PasswordHash: &empty}).HasPassword())
	assert.True(t, (&User{PasswordHash: &hash}).HasPassword())

	assert.Equal(t, UserStatusActive, (&User{IsActive: true}).Status())
	assert.Equal(t, UserStatusBanned, (&User{}).Status())
}
