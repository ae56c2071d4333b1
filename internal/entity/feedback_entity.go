package entity

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackType string
type FeedbackStatus string

const (
	FeedbackTypeBug              FeedbackType = "bug"
	FeedbackTypeFeature          FeedbackType = "feature"
	FeedbackTypeRecognitionIssue FeedbackType = "recognition_issue"
	FeedbackTypeGeneral          FeedbackType = "general"

	FeedbackStatusNew      FeedbackStatus = "new"
	FeedbackStatusInReview FeedbackStatus = "in_review"
	FeedbackStatusResolved FeedbackStatus = "resolved"
)

// FeedbackTypes is the display order used by the admin dashboard.
var FeedbackTypes = []FeedbackType{
	FeedbackTypeFeature,
	FeedbackTypeBug,
	FeedbackTypeRecognitionIssue,
	FeedbackTypeGeneral,
}

var feedbackTypeLabels = map[FeedbackType]string{
	FeedbackTypeFeature:          "功能建议",
	FeedbackTypeBug:              "错误报告",
	FeedbackTypeRecognitionIssue: "识别问题",
	FeedbackTypeGeneral:          "其他",
}

func (t FeedbackType) Valid() bool {
	_, ok := feedbackTypeLabels[t]
	return ok
}

func (t FeedbackType) Label() string {
	return feedbackTypeLabels[t]
}

func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackStatusNew, FeedbackStatusInReview, FeedbackStatusResolved:
		return true
	}
	return false
}

type Feedback struct {
	Id           uuid.UUID
	UserId       *uuid.UUID // nil for anonymous and legacy submissions
	Username     string
	Text         string
	Contact      *string
	FeedbackType FeedbackType
	ImageUrls    []string
	Status       FeedbackStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
