package memory

import (
	"context"
	"fmt"
	"time"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type userRepository struct {
	store *Store
}

func cloneUser(u entity.User) *entity.User {
	if u.PasswordHash != nil {
		h := *u.PasswordHash
		u.PasswordHash = &h
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		u.LastLogin = &t
	}
	return &u
}

// usernameTaken must be called with store.mu held.
func (r *userRepository) usernameTaken(username string, except uuid.UUID) bool {
	for _, u := range values[entity.User](r.store.users) {
		if u.Username == username && u.Id != except {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if _, exists := r.store.users.Get(user.Id.String()); exists {
		return fmt.Errorf("%w: users.id", contract.ErrDuplicate)
	}
	if r.usernameTaken(user.Username, user.Id) {
		return fmt.Errorf("%w: users.username", contract.ErrDuplicate)
	}

	now := r.store.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.store.users.Set(user.Id.String(), *cloneUser(*user), cache.NoExpiration)
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := get[entity.User](r.store.users, user.Id.String())
	if !ok {
		return contract.ErrNotFound
	}
	if r.usernameTaken(user.Username, user.Id) {
		return fmt.Errorf("%w: users.username", contract.ErrDuplicate)
	}

	// Account columns only; counters keep their stored values.
	stored.Username = user.Username
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.Role = user.Role
	stored.IsActive = user.IsActive
	stored.UpdatedAt = r.store.now()
	r.store.users.Set(user.Id.String(), *cloneUser(stored), cache.NoExpiration)
	*user = *cloneUser(stored)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users.Delete(id.String())
	return nil
}

func (r *userRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := get[entity.User](r.store.users, id.String())
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range values[entity.User](r.store.users) {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *userRepository) filter(q contract.UserQuery) []entity.User {
	all := values[entity.User](r.store.users)
	if len(q.Roles) == 0 {
		return all
	}
	out := make([]entity.User, 0, len(all))
	for _, u := range all {
		for _, role := range q.Roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

func (r *userRepository) FindAll(ctx context.Context, q contract.UserQuery) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := r.filter(q)
	sortBy(users, func(a, b entity.User) bool { return a.CreatedAt.After(b.CreatedAt) })

	out := []*entity.User{}
	for _, u := range paginate(users, q.Limit, q.Offset) {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *userRepository) Count(ctx context.Context, q contract.UserQuery) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.filter(q))), nil
}

func (r *userRepository) CountActive(ctx context.Context, since time.Time) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, u := range values[entity.User](r.store.users) {
		if u.RecognitionCount > 0 || (u.LastLogin != nil && !u.LastLogin.Before(since)) {
			n++
		}
	}
	return n, nil
}

func (r *userRepository) mutate(id uuid.UUID, fn func(u *entity.User)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := get[entity.User](r.store.users, id.String())
	if !ok {
		return nil
	}
	fn(&u)
	r.store.users.Set(id.String(), u, cache.NoExpiration)
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.mutate(id, func(u *entity.User) {
		u.LastLogin = &at
	})
}

func (r *userRepository) RecordRecognition(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.mutate(id, func(u *entity.User) {
		u.RecognitionCount++
		u.LastLogin = &at
	})
}

func (r *userRepository) FindWithoutPassword(ctx context.Context) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := values[entity.User](r.store.users)
	sortBy(users, func(a, b entity.User) bool { return a.Username < b.Username })

	out := []*entity.User{}
	for _, u := range users {
		if !u.HasPassword() {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}
