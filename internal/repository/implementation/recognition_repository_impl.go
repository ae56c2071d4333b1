package implementation

import (
	"context"
	"time"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/mapper"
	"airicepest-be/internal/model"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/scope"
	"airicepest-be/internal/repository/specification"

	"gorm.io/gorm"
)

type HistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecognitionMapper
}

func NewHistoryRepository(db *gorm.DB) contract.HistoryRepository {
	return &HistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecognitionMapper(),
	}
}

func (r *HistoryRepositoryImpl) Create(ctx context.Context, record *entity.HistoryRecord) error {
	row := r.mapper.HistoryToModel(record)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	*record = *r.mapper.HistoryToEntity(row)
	return nil
}

func (r *HistoryRepositoryImpl) FindAll(ctx context.Context, q contract.HistoryQuery) ([]*entity.HistoryRecord, error) {
	specs := []specification.Specification{specification.Pagination{Limit: q.Limit, Offset: q.Offset}}
	if q.UserId != nil {
		specs = append(specs, specification.OwnedBy{UserID: *q.UserId})
	}

	var rows []*model.History
	query := applySpecifications(r.db.WithContext(ctx).Scopes(scope.NewestFirst), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.HistoriesToEntities(rows), nil
}

func (r *HistoryRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.History{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *HistoryRepositoryImpl) CreatedTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := applySpecifications(r.db.WithContext(ctx).Model(&model.History{}), specification.CreatedSince{Since: since}).
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

type RecognitionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecognitionMapper
}

func NewRecognitionRepository(db *gorm.DB) contract.RecognitionRepository {
	return &RecognitionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecognitionMapper(),
	}
}

func (r *RecognitionRepositoryImpl) Create(ctx context.Context, detail *entity.RecognitionDetail) error {
	row := r.mapper.DetailToModel(detail)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	*detail = *r.mapper.DetailToEntity(row)
	return nil
}

func (r *RecognitionRepositoryImpl) FindById(ctx context.Context, id string) (*entity.RecognitionDetail, error) {
	var row model.RecognitionDetail
	if err := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id}).First(&row).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return r.mapper.DetailToEntity(&row), nil
}
