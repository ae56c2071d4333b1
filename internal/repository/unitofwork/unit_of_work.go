package unitofwork

import (
	"context"

	"airicepest-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	KnowledgeRepository() contract.KnowledgeRepository
	FeedbackRepository() contract.FeedbackRepository
	HistoryRepository() contract.HistoryRepository
	RecognitionRepository() contract.RecognitionRepository
}
