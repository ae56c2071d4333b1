package contract

import (
	"context"
	"time"

	"airicepest-be/internal/entity"

	"github.com/google/uuid"
)

type HistoryQuery struct {
	UserId *uuid.UUID // nil means every user
	Limit  int
	Offset int
}

type HistoryRepository interface {
	Create(ctx context.Context, record *entity.HistoryRecord) error
	// FindAll orders by date then created_at, newest first.
	FindAll(ctx context.Context, query HistoryQuery) ([]*entity.HistoryRecord, error)
	Count(ctx context.Context) (int64, error)
	// CreatedTimesSince returns created_at of every record at or after since.
	CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

type RecognitionRepository interface {
	Create(ctx context.Context, detail *entity.RecognitionDetail) error
	FindById(ctx context.Context, id string) (*entity.RecognitionDetail, error)
}
