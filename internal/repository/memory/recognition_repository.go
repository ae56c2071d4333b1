package memory

import (
	"context"
	"fmt"
	"time"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type historyRepository struct {
	store *Store
}

func (r *historyRepository) Create(ctx context.Context, record *entity.HistoryRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.history.Get(record.Id); exists {
		return fmt.Errorf("%w: history.id", contract.ErrDuplicate)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.store.now()
	}
	r.store.history.Set(record.Id, *record, cache.NoExpiration)
	return nil
}

func (r *historyRepository) FindAll(ctx context.Context, q contract.HistoryQuery) ([]*entity.HistoryRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := []entity.HistoryRecord{}
	for _, h := range values[entity.HistoryRecord](r.store.history) {
		if q.UserId == nil || (h.UserId != nil && *h.UserId == *q.UserId) {
			records = append(records, h)
		}
	}
	sortBy(records, func(a, b entity.HistoryRecord) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	out := []*entity.HistoryRecord{}
	for _, h := range paginate(records, q.Limit, q.Offset) {
		h := h
		out = append(out, &h)
	}
	return out, nil
}

func (r *historyRepository) Count(ctx context.Context) (int64, error) {
	return int64(r.store.history.ItemCount()), nil
}

func (r *historyRepository) CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	times := []time.Time{}
	for _, h := range values[entity.HistoryRecord](r.store.history) {
		if !h.CreatedAt.Before(since) {
			times = append(times, h.CreatedAt)
		}
	}
	return times, nil
}

type recognitionRepository struct {
	store *Store
}

func (r *recognitionRepository) Create(ctx context.Context, detail *entity.RecognitionDetail) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.details.Get(detail.Id); exists {
		return fmt.Errorf("%w: recognition_details.id", contract.ErrDuplicate)
	}
	if detail.CreatedAt.IsZero() {
		detail.CreatedAt = r.store.now()
	}
	stored := *detail
	stored.SolutionSteps = cloneStrings(detail.SolutionSteps)
	r.store.details.Set(detail.Id, stored, cache.NoExpiration)
	return nil
}

func (r *recognitionRepository) FindById(ctx context.Context, id string) (*entity.RecognitionDetail, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := get[entity.RecognitionDetail](r.store.details, id)
	if !ok {
		return nil, nil
	}
	d.SolutionSteps = cloneStrings(d.SolutionSteps)
	return &d, nil
}
