package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/pkg/security"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Stats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewAdminService(env.factory, env.log, env.clock.Now)
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	users := env.factory.NewUnitOfWork(ctx).UserRepository()
	recent := env.seedUser(t, "recent", "password123", entity.UserRoleUser)
	idle := env.seedUser(t, "idle", "password123", entity.UserRoleUser)
	env.seedUser(t, "never", "password123", entity.UserRoleUser)
	require.NoError(t, users.UpdateLastLogin(ctx, recent.Id, testEpoch.AddDate(0, 0, -2)))
	require.NoError(t, users.UpdateLastLogin(ctx, idle.Id, testEpoch.AddDate(0, 0, -45)))

	// Now is Wednesday 2026-03-18 17:30 in Shanghai.
	history := env.factory.NewUnitOfWork(ctx).HistoryRepository()
	for _, at := range []time.Time{
		testEpoch,                                     // Wed
		time.Date(2026, 3, 17, 20, 0, 0, 0, time.UTC), // Wed 04:00 local
		time.Date(2026, 3, 11, 17, 0, 0, 0, time.UTC), // Thu 03-12 01:00 local, first day
		time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC), // Wed 03-11 23:00 local, outside the week
		time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),  // January
		time.Date(2025, 9, 30, 17, 0, 0, 0, time.UTC), // October 1st local
		time.Date(2025, 9, 30, 15, 0, 0, 0, time.UTC), // September local, outside the trend
	} {
		require.NoError(t, history.Create(ctx, &entity.HistoryRecord{
			Id:        newRecordId(),
			Date:      at.Truncate(24 * time.Hour),
			CreatedAt: at,
		}))
	}

	feedback := NewFeedbackService(env.factory, env.publisher, env.log, env.clock.Now)
	for _, kind := range []string{"bug", "bug", "feature"} {
		_, err := feedback.Submit(ctx, nil, &dto.SubmitFeedbackRequest{Text: "x", FeedbackType: kind}, time.UTC)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, shanghai)
	require.NoError(t, err)

	assert.Equal(t, dto.StatsTotals{
		TotalUsers:        3,
		TotalRecognitions: 7,
		TotalFeedback:     3,
		ActiveUsers:       1,
	}, stats.Totals)

	assert.Equal(t, []dto.DayCount{
		{Date: "Thu", Count: 1},
		{Date: "Fri", Count: 0},
		{Date: "Sat", Count: 0},
		{Date: "Sun", Count: 0},
		{Date: "Mon", Count: 0},
		{Date: "Tue", Count: 0},
		{Date: "Wed", Count: 2},
	}, stats.RecognitionsPerDay)

	assert.Equal(t, []dto.MonthCount{
		{Month: "2025-10", Label: "10月", Recognitions: 1},
		{Month: "2025-11", Label: "11月", Recognitions: 0},
		{Month: "2025-12", Label: "12月", Recognitions: 0},
		{Month: "2026-01", Label: "1月", Recognitions: 1},
		{Month: "2026-02", Label: "2月", Recognitions: 0},
		{Month: "2026-03", Label: "3月", Recognitions: 4},
	}, stats.MonthlyTrend)

	assert.Equal(t, []dto.FeedbackTypeCount{
		{Type: "feature", Name: "功能建议", Value: 1},
		{Type: "bug", Name: "错误报告", Value: 2},
		{Type: "recognition_issue", Name: "识别问题", Value: 0},
		{Type: "general", Name: "其他", Value: 0},
	}, stats.FeedbackTypes)

	assert.Equal(t, "2026-03-18T17:30:00+08:00", stats.GeneratedAt)
}

func TestAdminService_UserAccounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewAdminService(env.factory, env.log, env.clock.Now)
	admin := actorOf(env.seedUser(t, "root", "password123", entity.UserRoleAdmin))

	created, err := svc.CreateUser(ctx, admin, &dto.CreateUserRequest{
		Username: "farmer",
		Password: "password123",
		Role:     "super_admin",
	}, time.UTC)
	require.NoError(t, err)
	// The users endpoint only ever creates regular accounts.
	assert.Equal(t, "user", created.Role)
	assert.Equal(t, "farmer@example.com", created.Email)

	_, err = svc.CreateUser(ctx, admin, &dto.CreateUserRequest{Username: "farmer", Password: "password123"}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	list, err := svc.ListUsers(ctx, &dto.AdminUserListRequest{}, time.UTC)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "farmer", list[0].Username)

	newPassword := "another-password"
	email := "farmer@farm.cn"
	updated, err := svc.UpdateUser(ctx, admin, created.Id, &dto.UpdateUserRequest{Email: &email, Password: &newPassword}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "farmer@farm.cn", updated.Email)

	auth := NewAuthService(env.factory, env.tokens, env.publisher, env.log, env.clock.Now)
	_, err = auth.Login(ctx, &dto.LoginRequest{Username: "farmer", Password: newPassword})
	require.NoError(t, err)

	banned, err := svc.SetUserStatus(ctx, admin, created.Id, "banned", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "banned", banned.Status)
	assert.False(t, banned.IsActive)

	_, err = auth.Login(ctx, &dto.LoginRequest{Username: "farmer", Password: newPassword})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.SetUserStatus(ctx, admin, created.Id, "suspended", time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = svc.SetUserStatus(ctx, admin, admin.Id.String(), "banned", time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	// Admin accounts are not reachable through the users endpoint.
	other := actorOf(env.seedUser(t, "other", "password123", entity.UserRoleAdmin))
	assert.True(t, apperror.Is(svc.DeleteUser(ctx, other, admin.Id.String()), apperror.KindNotFound))

	require.NoError(t, svc.DeleteUser(ctx, admin, created.Id))
	assert.True(t, apperror.Is(svc.DeleteUser(ctx, admin, created.Id), apperror.KindNotFound))
	assert.True(t, apperror.Is(svc.DeleteUser(ctx, admin, "bogus"), apperror.KindNotFound))
}

func TestAdminService_AdminAccounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewAdminService(env.factory, env.log, env.clock.Now)
	super := actorOf(env.seedUser(t, "owner", "password123", entity.UserRoleSuperAdmin))
	admin := actorOf(env.seedUser(t, "helper", "password123", entity.UserRoleAdmin))
	env.seedUser(t, "farmer", "password123", entity.UserRoleUser)

	list, err := svc.ListAdmins(ctx, &dto.AdminUserListRequest{}, time.UTC)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.CreateAdmin(ctx, admin, &dto.CreateUserRequest{Username: "deputy", Password: "password123", Role: "super_admin"}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.CreateAdmin(ctx, admin, &dto.CreateUserRequest{Username: "deputy", Password: "password123", Role: "user"}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	deputy, err := svc.CreateAdmin(ctx, admin, &dto.CreateUserRequest{Username: "deputy", Password: "password123"}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "admin", deputy.Role)

	promote := "super_admin"
	_, err = svc.UpdateAdmin(ctx, admin, deputy.Id, &dto.UpdateUserRequest{Role: &promote}, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	promoted, err := svc.UpdateAdmin(ctx, super, deputy.Id, &dto.UpdateUserRequest{Role: &promote}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "super_admin", promoted.Role)

	// A plain admin cannot touch a super admin.
	assert.True(t, apperror.Is(svc.DeleteAdmin(ctx, admin, deputy.Id), apperror.KindForbidden))
	_, err = svc.SetUserStatus(ctx, admin, super.Id.String(), "banned", time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	assert.True(t, apperror.Is(svc.DeleteAdmin(ctx, super, super.Id.String()), apperror.KindValidation))
	require.NoError(t, svc.DeleteAdmin(ctx, super, deputy.Id))

	stored := env.findUser(t, admin.Id)
	assert.True(t, security.CheckPassword("password123", *stored.PasswordHash))
}

// interleavingFactory runs hook once, right after the first user read inside
// any unit of work, to simulate a request that commits in between.
type interleavingFactory struct {
	unitofwork.RepositoryFactory
	once sync.Once
	hook func()
}

func (f *interleavingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &interleavingUnitOfWork{UnitOfWork: f.RepositoryFactory.NewUnitOfWork(ctx), factory: f}
}

type interleavingUnitOfWork struct {
	unitofwork.UnitOfWork
	factory *interleavingFactory
}

func (u *interleavingUnitOfWork) UserRepository() contract.UserRepository {
	return interleavingUsers{UserRepository: u.UnitOfWork.UserRepository(), factory: u.factory}
}

type interleavingUsers struct {
	contract.UserRepository
	factory *interleavingFactory
}

func (r interleavingUsers) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := r.UserRepository.FindById(ctx, id)
	r.factory.once.Do(r.factory.hook)
	return user, err
}

func TestAdminService_WritesKeepConcurrentRecognition(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin := actorOf(env.seedUser(t, "root", "password123", entity.UserRoleAdmin))

	tests := []struct {
		name  string
		write func(svc IAdminService, id string) (*dto.UserResponse, error)
	}{
		{"status change", func(svc IAdminService, id string) (*dto.UserResponse, error) {
			return svc.SetUserStatus(ctx, admin, id, "banned", time.UTC)
		}},
		{"account edit", func(svc IAdminService, id string) (*dto.UserResponse, error) {
			email := "farmer@example.org"
			return svc.UpdateUser(ctx, admin, id, &dto.UpdateUserRequest{Email: &email}, time.UTC)
		}},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			farmer := env.seedUser(t, "farmer"+string(rune('a'+i)), "password123", entity.UserRoleUser)
			factory := &interleavingFactory{RepositoryFactory: env.factory, hook: func() {
				users := env.factory.NewUnitOfWork(ctx).UserRepository()
				require.NoError(t, users.RecordRecognition(ctx, farmer.Id, testEpoch))
			}}

			res, err := tt.write(NewAdminService(factory, env.log, env.clock.Now), farmer.Id.String())
			require.NoError(t, err)
			assert.Equal(t, 1, res.RecognitionCount)
			assert.Equal(t, 1, env.findUser(t, farmer.Id).RecognitionCount)
		})
	}
}
