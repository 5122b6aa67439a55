package contract

import (
	"context"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Activity, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	LastActivityAt(ctx context.Context, userId uuid.UUID) (*time.Time, error)
	CountSince(ctx context.Context, cutoff time.Time) (int64, error)
}
