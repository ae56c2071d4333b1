package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store keeps every table in its own go-cache instance with no expiry. It
// backs the "memory" database driver and the service tests.
//
// Transactions are serialized: Begin holds txMu until Commit or Rollback,
// and Rollback restores the tables from the snapshot taken at Begin.
// Writes outside a transaction are not isolated from a running one.
type Store struct {
	now func() time.Time

	txMu sync.Mutex
	mu   sync.RWMutex

	users     *cache.Cache
	knowledge *cache.Cache
	feedback  *cache.Cache
	history   *cache.Cache
	details   *cache.Cache
}

func NewStore() *Store {
	return &Store{
		now:       time.Now,
		users:     cache.New(cache.NoExpiration, 0),
		knowledge: cache.New(cache.NoExpiration, 0),
		feedback:  cache.New(cache.NoExpiration, 0),
		history:   cache.New(cache.NoExpiration, 0),
		details:   cache.New(cache.NoExpiration, 0),
	}
}

// WithClock sets the source for created_at/updated_at stamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) tables() []*cache.Cache {
	return []*cache.Cache{s.users, s.knowledge, s.feedback, s.history, s.details}
}

type snapshot []map[string]cache.Item

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(snapshot, 0, len(s.tables()))
	for _, t := range s.tables() {
		snap = append(snap, t.Items())
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tables() {
		t.Flush()
		for k, item := range snap[i] {
			t.Set(k, item.Object, cache.NoExpiration)
		}
	}
}

func values[T any](c *cache.Cache) []T {
	items := c.Items()
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(T))
	}
	return out
}

func get[T any](c *cache.Cache, key string) (T, bool) {
	var zero T
	obj, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	return obj.(T), true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortBy[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
