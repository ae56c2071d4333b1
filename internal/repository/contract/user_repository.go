package contract

import (
	"context"
	"time"

	"airicepest-be/internal/entity"

	"github.com/google/uuid"
)

type UserQuery struct {
	Roles  []entity.UserRole
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context, query UserQuery) ([]*entity.User, error)
	Count(ctx context.Context, query UserQuery) (int64, error)
	// CountActive counts users who logged in at or after since, or who have
	// ever run a recognition.
	CountActive(ctx context.Context, since time.Time) (int64, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	// RecordRecognition increments recognition_count and sets last_login.
	RecordRecognition(ctx context.Context, id uuid.UUID, at time.Time) error
	// FindWithoutPassword lists legacy rows that still have no hash.
	FindWithoutPassword(ctx context.Context) ([]*entity.User, error)
}
