package implementation

import (
	"context"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/mapper"
	"airicepest-be/internal/model"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/scope"
	"airicepest-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewFeedbackRepository(db *gorm.DB) contract.FeedbackRepository {
	return &FeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

func (r *FeedbackRepositoryImpl) Create(ctx context.Context, feedback *entity.Feedback) error {
	row := r.mapper.ToModel(feedback)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	*feedback = *r.mapper.ToEntity(row)
	return nil
}

func (r *FeedbackRepositoryImpl) Update(ctx context.Context, feedback *entity.Feedback) error {
	row := r.mapper.ToModel(feedback)
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	*feedback = *r.mapper.ToEntity(row)
	return nil
}

func (r *FeedbackRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Feedback, error) {
	var row model.Feedback
	if err := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id}).First(&row).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return r.mapper.ToEntity(&row), nil
}

func (r *FeedbackRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Feedback, error) {
	var rows []*model.Feedback
	if err := r.db.WithContext(ctx).Scopes(scope.OrderByCreatedDesc).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *FeedbackRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Feedback{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FeedbackRepositoryImpl) CountByType(ctx context.Context) (map[entity.FeedbackType]int64, error) {
	var rows []struct {
		FeedbackType string
		Total        int64
	}
	err := r.db.WithContext(ctx).Model(&model.Feedback{}).
		Select("feedback_type, COUNT(*) AS total").
		Group("feedback_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.FeedbackType]int64, len(rows))
	for _, row := range rows {
		counts[entity.FeedbackType(row.FeedbackType)] = row.Total
	}
	return counts, nil
}
