package service

import (
	"context"
	"testing"
	"time"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_GetAndUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewProfileService(env.factory, env.log)
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	alice := env.seedUser(t, "alice", "password123", entity.UserRoleUser)
	env.seedUser(t, "bob", "password123", entity.UserRoleUser)

	profile, err := svc.GetProfile(ctx, alice.Id, shanghai)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "active", profile.Status)
	assert.Equal(t, "2026-03-18T17:30:00+08:00", profile.CreatedAt)
	assert.Nil(t, profile.LastLogin)

	name, email := "  alice2  ", "alice@farm.cn"
	updated, err := svc.UpdateProfile(ctx, alice.Id, &dto.UpdateProfileRequest{Username: &name, Email: &email}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice@farm.cn", updated.Email)

	// Keeping the current name is not a conflict.
	same := "alice2"
	_, err = svc.UpdateProfile(ctx, alice.Id, &dto.UpdateProfileRequest{Username: &same}, time.UTC)
	require.NoError(t, err)

	taken := "bob"
	_, err = svc.UpdateProfile(ctx, alice.Id, &dto.UpdateProfileRequest{Username: &taken}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	short := "ab"
	_, err = svc.UpdateProfile(ctx, alice.Id, &dto.UpdateProfileRequest{Username: &short}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	blank := " "
	_, err = svc.UpdateProfile(ctx, alice.Id, &dto.UpdateProfileRequest{Email: &blank}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	// Failed updates leave the stored row untouched.
	assert.Equal(t, "alice2", env.findUser(t, alice.Id).Username)
}

func TestProfileService_UnknownUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewProfileService(env.factory, env.log)

	_, err := svc.GetProfile(ctx, uuid.New(), time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	name := "ghost"
	_, err = svc.UpdateProfile(ctx, uuid.New(), &dto.UpdateProfileRequest{Username: &name}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
