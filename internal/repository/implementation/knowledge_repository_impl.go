package implementation

import (
	"context"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/mapper"
	"airicepest-be/internal/model"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/specification"

	"gorm.io/gorm"
)

type KnowledgeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeRepository(db *gorm.DB) contract.KnowledgeRepository {
	return &KnowledgeRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeRepositoryImpl) Create(ctx context.Context, entry *entity.KnowledgeEntry) error {
	row := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	*entry = *r.mapper.ToEntity(row)
	return nil
}

func (r *KnowledgeRepositoryImpl) Update(ctx context.Context, entry *entity.KnowledgeEntry) error {
	row := r.mapper.ToModel(entry)
	// Save writes NULLs for cleared columns, which Updates(struct) would skip.
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return translateError(err)
	}
	*entry = *r.mapper.ToEntity(row)
	return nil
}

func (r *KnowledgeRepositoryImpl) Delete(ctx context.Context, pestId int) error {
	return r.db.WithContext(ctx).Where("pest_id = ?", pestId).Delete(&model.KnowledgeBase{}).Error
}

func (r *KnowledgeRepositoryImpl) FindByPestId(ctx context.Context, pestId int) (*entity.KnowledgeEntry, error) {
	var row model.KnowledgeBase
	query := applySpecifications(r.db.WithContext(ctx), specification.ByID{Column: "pest_id", ID: pestId})
	if err := query.First(&row).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return r.mapper.ToEntity(&row), nil
}

func (r *KnowledgeRepositoryImpl) FindAll(ctx context.Context, q contract.KnowledgeQuery) ([]*entity.KnowledgeEntry, error) {
	var rows []*model.KnowledgeBase
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByCategory{Category: q.Category},
		specification.OrderBy{Field: "category"},
		specification.OrderBy{Field: "pest_id"},
		specification.Pagination{Limit: q.Limit, Offset: q.Offset},
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *KnowledgeRepositoryImpl) Count(ctx context.Context, q contract.KnowledgeQuery) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.KnowledgeBase{}), specification.ByCategory{Category: q.Category})
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
