package memory

import (
	"context"
	"fmt"
	"strconv"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type knowledgeRepository struct {
	store *Store
}

func cloneEntry(e entity.KnowledgeEntry) *entity.KnowledgeEntry {
	e.Aliases = cloneStrings(e.Aliases)
	e.AffectedParts = cloneStrings(e.AffectedParts)
	e.SymptomImages = cloneStrings(e.SymptomImages)
	e.Controls = entity.ControlMeasures{
		Agricultural: cloneStrings(e.Controls.Agricultural),
		Physical:     cloneStrings(e.Controls.Physical),
		Biological:   cloneStrings(e.Controls.Biological),
		Chemical:     cloneStrings(e.Controls.Chemical),
	}
	return &e
}

func (r *knowledgeRepository) Create(ctx context.Context, entry *entity.KnowledgeEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := strconv.Itoa(entry.PestId)
	if _, exists := r.store.knowledge.Get(key); exists {
		return fmt.Errorf("%w: knowledge_base.pest_id", contract.ErrDuplicate)
	}
	now := r.store.now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.store.knowledge.Set(key, *cloneEntry(*entry), cache.NoExpiration)
	return nil
}

func (r *knowledgeRepository) Update(ctx context.Context, entry *entity.KnowledgeEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entry.UpdatedAt = r.store.now()
	r.store.knowledge.Set(strconv.Itoa(entry.PestId), *cloneEntry(*entry), cache.NoExpiration)
	return nil
}

func (r *knowledgeRepository) Delete(ctx context.Context, pestId int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.knowledge.Delete(strconv.Itoa(pestId))
	return nil
}

func (r *knowledgeRepository) FindByPestId(ctx context.Context, pestId int) (*entity.KnowledgeEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := get[entity.KnowledgeEntry](r.store.knowledge, strconv.Itoa(pestId))
	if !ok {
		return nil, nil
	}
	return cloneEntry(e), nil
}

func (r *knowledgeRepository) filter(q contract.KnowledgeQuery) []entity.KnowledgeEntry {
	all := values[entity.KnowledgeEntry](r.store.knowledge)
	if q.Category == "" {
		return all
	}
	out := make([]entity.KnowledgeEntry, 0, len(all))
	for _, e := range all {
		if e.Category == q.Category {
			out = append(out, e)
		}
	}
	return out
}

func (r *knowledgeRepository) FindAll(ctx context.Context, q contract.KnowledgeQuery) ([]*entity.KnowledgeEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.filter(q)
	sortBy(entries, func(a, b entity.KnowledgeEntry) bool {
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.PestId < b.PestId
	})

	out := []*entity.KnowledgeEntry{}
	for _, e := range paginate(entries, q.Limit, q.Offset) {
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

func (r *knowledgeRepository) Count(ctx context.Context, q contract.KnowledgeQuery) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.filter(q))), nil
}
