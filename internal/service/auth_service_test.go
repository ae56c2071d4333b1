package service

import (
	"context"
	"sync"
	"testing"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/security"
	"airicepest-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(env *testEnv) IAuthService {
	return NewAuthService(env.factory, env.tokens, env.publisher, env.log, env.clock.Now)
}

func TestAuthService_AliceScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newAuthService(env)

	registered, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", registered.Username)
	assert.Equal(t, "alice@example.com", registered.Email)
	assert.Equal(t, string(entity.UserRoleUser), registered.Role)

	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registered.Id, login.User.Id)

	claims, ok := env.tokens.Verify(login.Token)
	require.True(t, ok)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, entity.UserRoleUser, claims.Role)
	assert.Equal(t, testEpoch.Add(security.TokenTTL).Unix(), claims.ExpiresAt.Unix())

	stored := env.findUser(t, claims.UserId)
	require.NotNil(t, stored.LastLogin)
	assert.True(t, stored.LastLogin.Equal(testEpoch))

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong-password"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindAuth))
	assert.Equal(t, "Invalid username or password", err.Error())

	assert.Equal(t, []string{events.UserRegistered, events.UserLogin}, env.publisher.Types())
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newTestEnv(t))

	tests := []struct {
		name string
		req  dto.RegisterRequest
		kind apperror.Kind
		msg  string
	}{
		{"missing password", dto.RegisterRequest{Username: "alice"}, apperror.KindValidation, "Username and password are required"},
		{"blank username", dto.RegisterRequest{Username: "  ", Password: "password123"}, apperror.KindValidation, "Username and password are required"},
		{"short username", dto.RegisterRequest{Username: "al", Password: "password123"}, apperror.KindValidation, "Username must be at least 3 characters"},
		{"short password", dto.RegisterRequest{Username: "alice", Password: "short"}, apperror.KindValidation, "Password must be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, tt.kind))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newTestEnv(t))

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "password123", Email: "bob@farm.cn"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "password456"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "Username already exists", err.Error())
}

func TestAuthService_ConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newTestEnv(t))

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "carol", Password: "password123"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case apperror.Is(err, apperror.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
}

func TestAuthService_LegacyPasswordMigration(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newAuthService(env)
	legacy := env.seedUser(t, "oldtimer", "", entity.UserRoleUser)

	_, err := svc.Login(ctx, &dto.LoginRequest{Username: "oldtimer", Password: "short"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.False(t, env.findUser(t, legacy.Id).HasPassword())

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "oldtimer", Password: "chosen-on-first-login"})
	require.NoError(t, err)

	stored := env.findUser(t, legacy.Id)
	require.True(t, stored.HasPassword())
	assert.True(t, security.CheckPassword("chosen-on-first-login", *stored.PasswordHash))

	// The migrated hash is now authoritative.
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "oldtimer", Password: "something-else"})
	assert.True(t, apperror.Is(err, apperror.KindAuth))
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newAuthService(env)

	banned := env.seedUser(t, "mallory", "password123", entity.UserRoleUser)
	banned.IsActive = false
	require.NoError(t, env.factory.NewUnitOfWork(ctx).UserRepository().Update(ctx, banned))

	_, err := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "password123"})
	assert.True(t, apperror.Is(err, apperror.KindAuth))
	assert.Equal(t, "Invalid username or password", err.Error())

	// Wrong password wins over the ban so account state is not disclosed.
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "mallory", Password: "not-the-password"})
	assert.True(t, apperror.Is(err, apperror.KindAuth))

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "mallory", Password: "password123"})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, "Account is disabled", err.Error())

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "", Password: ""})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
