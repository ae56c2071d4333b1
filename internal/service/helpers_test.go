package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/logger"
	"airicepest-be/internal/pkg/security"
	"airicepest-be/internal/repository/memory"
	"airicepest-be/internal/repository/unitofwork"
	"airicepest-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type testEnv struct {
	clock     *fakeClock
	store     *memory.Store
	factory   unitofwork.RepositoryFactory
	tokens    *security.TokenService
	publisher *recordingPublisher
	log       logger.ILogger
}

var testEpoch = time.Date(2026, 3, 18, 9, 30, 0, 0, time.UTC) // a Wednesday

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := newFakeClock(testEpoch)
	store := memory.NewStore().WithClock(clock.Now)
	return &testEnv{
		clock:     clock,
		store:     store,
		factory:   memory.NewRepositoryFactory(store),
		tokens:    security.NewTokenService("test-secret").WithClock(clock.Now),
		publisher: &recordingPublisher{},
		log:       logger.NewNopLogger(),
	}
}

// seedUser stores a user directly, bypassing service validation.
func (env *testEnv) seedUser(t *testing.T, username, password string, role entity.UserRole) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	if password != "" {
		hash, err := security.HashPassword(password)
		require.NoError(t, err)
		user.PasswordHash = &hash
	}
	ctx := context.Background()
	require.NoError(t, env.factory.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))
	return user
}

func (env *testEnv) findUser(t *testing.T, id uuid.UUID) *entity.User {
	t.Helper()
	ctx := context.Background()
	user, err := env.factory.NewUnitOfWork(ctx).UserRepository().FindById(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func actorOf(u *entity.User) *Actor {
	return &Actor{Id: u.Id, Username: u.Username, Role: u.Role}
}
