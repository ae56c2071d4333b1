package entity

import (
	"time"

	"airicepest-be/pkg/textcodec"

	"github.com/google/uuid"
)

type HistoryRecord struct {
	Id            string
	RecognitionId string
	UserId        *uuid.UUID
	Date          time.Time
	ImageUrl      string
	DiseaseName   string
	Confidence    float64
	CreatedAt     time.Time
}

type RecognitionDetail struct {
	Id            string
	UserId        *uuid.UUID
	DiseaseName   string
	Confidence    float64
	Description   string
	Cause         string
	SolutionTitle string
	SolutionSteps []string
	// StepsFormat is how the stored steps were read. Empty means structured.
	StepsFormat textcodec.StepsFormat
	ImageUrl    string
	CreatedAt   time.Time
}

// VisibleTo reports whether a caller may read the detail. Ownerless rows
// predate per-user history and stay readable.
func (d *RecognitionDetail) VisibleTo(userId uuid.UUID, role UserRole) bool {
	if role.IsElevated() || d.UserId == nil {
		return true
	}
	return *d.UserId == userId
}
