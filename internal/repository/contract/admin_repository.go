package contract

import (
	"context"

	"lingodocs-be/internal/model"
)

type AdminRepository interface {
	GetTheme(ctx context.Context) (*model.ThemeSetting, error)
	SaveTheme(ctx context.Context, theme *model.ThemeSetting) error
}
