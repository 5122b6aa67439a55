package contract

import (
	"context"
	"time"

	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Business Specific
	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error
	SetActive(ctx context.Context, userId uuid.UUID, active bool) error
	UpdateLastLogin(ctx context.Context, userId uuid.UUID, at time.Time) error
	ActiveUserIds(ctx context.Context) ([]uuid.UUID, error)
	InactiveUserIdsSince(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	CountByRole(ctx context.Context, role string) (int64, error)

	// Token Management
	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error)
	MarkTokenUsed(ctx context.Context, id uuid.UUID) error
}
