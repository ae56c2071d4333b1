package contract

import (
	"context"

	"airicepest-be/internal/entity"
)

type KnowledgeQuery struct {
	Category string // empty means every category
	Limit    int
	Offset   int
}

type KnowledgeRepository interface {
	Create(ctx context.Context, entry *entity.KnowledgeEntry) error
	Update(ctx context.Context, entry *entity.KnowledgeEntry) error
	Delete(ctx context.Context, pestId int) error
	FindByPestId(ctx context.Context, pestId int) (*entity.KnowledgeEntry, error)
	// FindAll orders by category then pest_id.
	FindAll(ctx context.Context, query KnowledgeQuery) ([]*entity.KnowledgeEntry, error)
	Count(ctx context.Context, query KnowledgeQuery) (int64, error)
}
