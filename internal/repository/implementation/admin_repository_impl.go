package implementation

import (
	"context"
	"errors"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/contract"

	"gorm.io/gorm"
)

type AdminRepositoryImpl struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) contract.AdminRepository {
	return &AdminRepositoryImpl{db: db}
}

func (r *AdminRepositoryImpl) GetTheme(ctx context.Context) (*model.ThemeSetting, error) {
	var theme model.ThemeSetting
	err := r.db.WithContext(ctx).First(&theme).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &theme, nil
}

func (r *AdminRepositoryImpl) SaveTheme(ctx context.Context, theme *model.ThemeSetting) error {
	return r.db.WithContext(ctx).Save(theme).Error
}
