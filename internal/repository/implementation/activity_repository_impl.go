package implementation

import (
	"context"
	"errors"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/contract"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepositoryImpl struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{db: db}
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Activity, error) {
	var rows []*model.Activity
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ActivityRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.Activity{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ActivityRepositoryImpl) LastActivityAt(ctx context.Context, userId uuid.UUID) (*time.Time, error) {
	var row model.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row.CreatedAt, nil
}

func (r *ActivityRepositoryImpl) CountSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Activity{}).
		Where("created_at >= ?", cutoff).
		Count(&count).Error
	return count, err
}
