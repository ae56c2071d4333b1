package memory

import (
	"context"

	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/unitofwork"
)

type repositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

type unitOfWork struct {
	store *Store
	snap  snapshot
	inTx  bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return unitofwork.ErrTxAlreadyStarted
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.txMu.Lock()
	u.snap = u.store.snapshot()
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return unitofwork.ErrNoTx
	}
	u.snap = nil
	u.inTx = false
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return unitofwork.ErrNoTx
	}
	u.store.restore(u.snap)
	u.snap = nil
	u.inTx = false
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{store: u.store}
}

func (u *unitOfWork) KnowledgeRepository() contract.KnowledgeRepository {
	return &knowledgeRepository{store: u.store}
}

func (u *unitOfWork) FeedbackRepository() contract.FeedbackRepository {
	return &feedbackRepository{store: u.store}
}

func (u *unitOfWork) HistoryRepository() contract.HistoryRepository {
	return &historyRepository{store: u.store}
}

func (u *unitOfWork) RecognitionRepository() contract.RecognitionRepository {
	return &recognitionRepository{store: u.store}
}
