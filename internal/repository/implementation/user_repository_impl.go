package implementation

import (
	"context"
	"time"

	"airicepest-be/internal/entity"
	"airicepest-be/internal/mapper"
	"airicepest-be/internal/model"
	"airicepest-be/internal/repository/contract"
	"airicepest-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	row := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	*user = *r.mapper.ToEntity(row)
	return nil
}

// Update writes the account columns only. Counters and last_login belong to
// UpdateLastLogin and RecordRecognition, so a concurrent recognition is never
// overwritten with a stale value.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&model.User{}).
		Where("id = ?", user.Id).
		Updates(map[string]interface{}{
			"username":      user.Username,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"role":          string(user.Role),
			"is_active":     user.IsActive,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return contract.ErrNotFound
	}

	var row model.User
	if err := db.Where("id = ?", user.Id).First(&row).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(&row)
	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var row model.User
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&row).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return r.mapper.ToEntity(&row), nil
}

func (r *UserRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, specification.ByUsername{Username: username})
}

func querySpecs(q contract.UserQuery) []specification.Specification {
	roles := make([]string, 0, len(q.Roles))
	for _, role := range q.Roles {
		roles = append(roles, string(role))
	}
	return []specification.Specification{specification.RoleIn{Roles: roles}}
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, q contract.UserQuery) ([]*entity.User, error) {
	specs := append(querySpecs(q),
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: q.Limit, Offset: q.Offset},
	)

	var rows []*model.User
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, q contract.UserQuery) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), querySpecs(q)...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) CountActive(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specification.ActiveSince{Since: since})
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

func (r *UserRepositoryImpl) RecordRecognition(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"recognition_count": gorm.Expr("recognition_count + 1"),
			"last_login":        at,
		}).Error
}

func (r *UserRepositoryImpl) FindWithoutPassword(ctx context.Context) ([]*entity.User, error) {
	var rows []*model.User
	query := applySpecifications(r.db.WithContext(ctx), specification.WithoutPassword{}, specification.OrderBy{Field: "username"})
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}
