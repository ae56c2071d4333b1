package memory

import (
	"context"

	"airicepest-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type feedbackRepository struct {
	store *Store
}

func cloneFeedback(f entity.Feedback) *entity.Feedback {
	f.ImageUrls = cloneStrings(f.ImageUrls)
	if f.UserId != nil {
		id := *f.UserId
		f.UserId = &id
	}
	if f.Contact != nil {
		c := *f.Contact
		f.Contact = &c
	}
	return &f
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if feedback.Id == uuid.Nil {
		feedback.Id = uuid.New()
	}
	now := r.store.now()
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = now
	}
	feedback.UpdatedAt = now
	r.store.feedback.Set(feedback.Id.String(), *cloneFeedback(*feedback), cache.NoExpiration)
	return nil
}

func (r *feedbackRepository) Update(ctx context.Context, feedback *entity.Feedback) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	feedback.UpdatedAt = r.store.now()
	r.store.feedback.Set(feedback.Id.String(), *cloneFeedback(*feedback), cache.NoExpiration)
	return nil
}

func (r *feedbackRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.Feedback, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	f, ok := get[entity.Feedback](r.store.feedback, id.String())
	if !ok {
		return nil, nil
	}
	return cloneFeedback(f), nil
}

func (r *feedbackRepository) FindAll(ctx context.Context) ([]*entity.Feedback, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := values[entity.Feedback](r.store.feedback)
	sortBy(all, func(a, b entity.Feedback) bool { return a.CreatedAt.After(b.CreatedAt) })

	out := make([]*entity.Feedback, 0, len(all))
	for _, f := range all {
		out = append(out, cloneFeedback(f))
	}
	return out, nil
}

func (r *feedbackRepository) Count(ctx context.Context) (int64, error) {
	return int64(r.store.feedback.ItemCount()), nil
}

func (r *feedbackRepository) CountByType(ctx context.Context) (map[entity.FeedbackType]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := map[entity.FeedbackType]int64{}
	for _, f := range values[entity.Feedback](r.store.feedback) {
		counts[f.FeedbackType]++
	}
	return counts, nil
}
