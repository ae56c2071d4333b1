package contract

import (
	"context"

	"airicepest-be/internal/entity"

	"github.com/google/uuid"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	Update(ctx context.Context, feedback *entity.Feedback) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Feedback, error)
	// FindAll returns newest first.
	FindAll(ctx context.Context) ([]*entity.Feedback, error)
	Count(ctx context.Context) (int64, error)
	CountByType(ctx context.Context) (map[entity.FeedbackType]int64, error)
}
