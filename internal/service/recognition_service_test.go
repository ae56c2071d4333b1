package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"airicepest-be/internal/dto"
	"airicepest-be/internal/entity"
	"airicepest-be/internal/pkg/apperror"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/unitofwork"
	"airicepest-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognitionService_Recognize(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewRecognitionService(env.factory, env.publisher, env.log, env.clock.Now)
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	alice := env.seedUser(t, "alice", "password123", entity.UserRoleUser)

	// 2026-03-18 09:30 UTC is still the 18th in Shanghai; push past local midnight.
	env.clock.Advance(15 * time.Hour)

	res, err := svc.Recognize(ctx, actorOf(alice), "/static/uploads/leaf.jpg", shanghai)
	require.NoError(t, err)
	assert.Len(t, res.Id, 32)
	assert.Len(t, res.HistoryId, 32)
	assert.Equal(t, "Unknown Disease", res.DiseaseName)
	assert.Equal(t, 75.0, res.Confidence)

	assert.Equal(t, 1, env.findUser(t, alice.Id).RecognitionCount)

	detail, err := svc.GetDetail(ctx, actorOf(alice), res.Id, shanghai)
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/leaf.jpg", detail.ImageUrl)
	assert.Equal(t, "Suggested measures", detail.Solution.Title)
	assert.Equal(t, "structured", detail.Solution.Format)
	assert.Equal(t, []string{"Observe field", "Consult expert"}, detail.Solution.Steps)
	assert.Equal(t, "2026-03-19T08:30:00+08:00", detail.CreatedAt)

	history, err := svc.ListHistory(ctx, actorOf(alice), &dto.HistoryListRequest{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.HistoryId, history[0].Id)
	assert.Equal(t, res.Id, history[0].RecognitionId)
	assert.Equal(t, "2026-03-19", history[0].Date)

	assert.Equal(t, []string{events.RecognitionRecorded}, env.publisher.Types())

	_, err = svc.Recognize(ctx, actorOf(alice), "  ", shanghai)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestRecognitionService_Visibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewRecognitionService(env.factory, env.publisher, env.log, env.clock.Now)
	alice := actorOf(env.seedUser(t, "alice", "password123", entity.UserRoleUser))
	bob := actorOf(env.seedUser(t, "bob", "password123", entity.UserRoleUser))
	admin := actorOf(env.seedUser(t, "root", "password123", entity.UserRoleAdmin))

	mine, err := svc.Recognize(ctx, alice, "/a.jpg", time.UTC)
	require.NoError(t, err)
	_, err = svc.Recognize(ctx, bob, "/b.jpg", time.UTC)
	require.NoError(t, err)

	// Ownerless rows from before per-user history.
	require.NoError(t, env.factory.NewUnitOfWork(ctx).RecognitionRepository().Create(ctx, &entity.RecognitionDetail{
		Id:          "legacy0000000000000000000000000a",
		DiseaseName: "稻瘟病",
		Confidence:  91.5,
	}))

	_, err = svc.GetDetail(ctx, bob, mine.Id, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = svc.GetDetail(ctx, nil, mine.Id, time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = svc.GetDetail(ctx, admin, mine.Id, time.UTC)
	assert.NoError(t, err)
	_, err = svc.GetDetail(ctx, bob, "missing", time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	legacy, err := svc.GetDetail(ctx, bob, "legacy0000000000000000000000000a", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Control Measures", legacy.Solution.Title)
	assert.Equal(t, []string{}, legacy.Solution.Steps)

	aliceHistory, err := svc.ListHistory(ctx, alice, &dto.HistoryListRequest{})
	require.NoError(t, err)
	require.Len(t, aliceHistory, 1)
	assert.Equal(t, mine.Id, aliceHistory[0].RecognitionId)

	all, err := svc.ListHistory(ctx, admin, &dto.HistoryListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	anonymous, err := svc.ListHistory(ctx, nil, &dto.HistoryListRequest{})
	require.NoError(t, err)
	assert.Empty(t, anonymous)
}

var errInjected = errors.New("injected failure")

// failingFactory wraps a factory so one repository's writes fail.
type failingFactory struct {
	unitofwork.RepositoryFactory
	failHistory bool
	failUsers   bool
}

func (f *failingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &failingUnitOfWork{UnitOfWork: f.RepositoryFactory.NewUnitOfWork(ctx), factory: f}
}

type failingUnitOfWork struct {
	unitofwork.UnitOfWork
	factory *failingFactory
}

func (u *failingUnitOfWork) HistoryRepository() contract.HistoryRepository {
	if u.factory.failHistory {
		return failingHistory{u.UnitOfWork.HistoryRepository()}
	}
	return u.UnitOfWork.HistoryRepository()
}

func (u *failingUnitOfWork) UserRepository() contract.UserRepository {
	if u.factory.failUsers {
		return failingUsers{u.UnitOfWork.UserRepository()}
	}
	return u.UnitOfWork.UserRepository()
}

type failingHistory struct {
	contract.HistoryRepository
}

func (failingHistory) Create(context.Context, *entity.HistoryRecord) error {
	return errInjected
}

type failingUsers struct {
	contract.UserRepository
}

func (failingUsers) RecordRecognition(context.Context, uuid.UUID, time.Time) error {
	return errInjected
}

func TestRecognitionService_RecognizeIsAtomic(t *testing.T) {
	tests := []struct {
		name    string
		factory func(unitofwork.RepositoryFactory) *failingFactory
	}{
		{"history insert fails", func(f unitofwork.RepositoryFactory) *failingFactory {
			return &failingFactory{RepositoryFactory: f, failHistory: true}
		}},
		{"user counter fails", func(f unitofwork.RepositoryFactory) *failingFactory {
			return &failingFactory{RepositoryFactory: f, failUsers: true}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			alice := env.seedUser(t, "alice", "password123", entity.UserRoleUser)
			svc := NewRecognitionService(tt.factory(env.factory), env.publisher, env.log, env.clock.Now)

			_, err := svc.Recognize(ctx, actorOf(alice), "/a.jpg", time.UTC)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindInternal))
			assert.ErrorIs(t, err, errInjected)

			uow := env.factory.NewUnitOfWork(ctx)
			count, err := uow.HistoryRepository().Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
			assert.Zero(t, env.findUser(t, alice.Id).RecognitionCount)
			assert.Empty(t, env.publisher.Types())

			// The store is usable again once the failed transaction is gone.
			ok := NewRecognitionService(env.factory, env.publisher, env.log, env.clock.Now)
			res, err := ok.Recognize(ctx, actorOf(alice), "/b.jpg", time.UTC)
			require.NoError(t, err)
			detail, err := uow.RecognitionRepository().FindById(ctx, res.Id)
			require.NoError(t, err)
			require.NotNil(t, detail)
		})
	}
}
