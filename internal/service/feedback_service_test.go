package service

import (
	"context"
	"testing"
	"time"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_SubmitAndReview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewFeedbackService(env.factory, env.publisher, env.log, env.clock.Now)
	alice := env.seedUser(t, "alice", "password123", entity.UserRoleUser)

	submitted, err := svc.Submit(ctx, actorOf(alice), &dto.SubmitFeedbackRequest{
		Text:         "  识别结果不准确  ",
		Contact:      "alice@farm.cn",
		FeedbackType: "recognition_issue",
		ImageUrls:    []string{"/static/uploads/a.jpg", " ", ""},
	}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "识别结果不准确", submitted.Text)
	assert.Equal(t, "alice", submitted.Username)
	require.NotNil(t, submitted.UserId)
	assert.Equal(t, alice.Id.String(), *submitted.UserId)
	assert.Equal(t, "识别问题", submitted.TypeLabel)
	assert.Equal(t, []string{"/static/uploads/a.jpg"}, submitted.ImageUrls)
	assert.Equal(t, "new", submitted.Status)
	assert.Equal(t, "2026-03-18T09:30:00Z", submitted.Timestamp)

	env.clock.Advance(time.Hour)
	reviewed, err := svc.UpdateStatus(ctx, submitted.Id, "in_review", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "in_review", reviewed.Status)
	assert.Equal(t, submitted.Timestamp, reviewed.Timestamp)
	assert.Equal(t, "2026-03-18T10:30:00Z", reviewed.UpdatedAt)

	// Repeating a transition is accepted.
	_, err = svc.UpdateStatus(ctx, submitted.Id, "in_review", time.UTC)
	require.NoError(t, err)

	list, err := svc.List(ctx, time.UTC)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "in_review", list[0].Status)

	assert.Equal(t, []string{
		events.FeedbackSubmitted,
		events.FeedbackStatusChanged,
		events.FeedbackStatusChanged,
	}, env.publisher.Types())
}

func TestFeedbackService_SubmitDefaults(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewFeedbackService(env.factory, env.publisher, env.log, env.clock.Now)

	anon, err := svc.Submit(ctx, nil, &dto.SubmitFeedbackRequest{Text: "hello"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "general", anon.Type)
	assert.Equal(t, "anonymous", anon.Username)
	assert.Nil(t, anon.UserId)
	assert.Nil(t, anon.Contact)
	assert.Equal(t, []string{}, anon.ImageUrls)

	legacy, err := svc.Submit(ctx, nil, &dto.SubmitFeedbackRequest{Text: "crash", Type: "bug"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "bug", legacy.Type)

	_, err = svc.Submit(ctx, nil, &dto.SubmitFeedbackRequest{Text: "x", FeedbackType: "praise"}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "Invalid feedback type", err.Error())

	_, err = svc.Submit(ctx, nil, &dto.SubmitFeedbackRequest{Text: "   "}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "Feedback text is required", err.Error())
}

func TestFeedbackService_UpdateStatusErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewFeedbackService(env.factory, env.publisher, env.log, env.clock.Now)
	submitted, err := svc.Submit(ctx, nil, &dto.SubmitFeedbackRequest{Text: "hello"}, time.UTC)
	require.NoError(t, err)

	tests := []struct {
		name   string
		id     string
		status string
		kind   apperror.Kind
	}{
		{"unknown status", submitted.Id, "closed", apperror.KindValidation},
		{"unknown id", uuid.NewString(), "resolved", apperror.KindNotFound},
		{"malformed id", "not-a-uuid", "resolved", apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(ctx, tt.id, tt.status, time.UTC)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, tt.kind))
		})
	}

	list, err := svc.List(ctx, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "new", list[0].Status)
}
