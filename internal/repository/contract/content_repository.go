package contract

import (
	"context"

	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProgramRepository interface {
	Create(ctx context.Context, program *entity.Program) error
	Update(ctx context.Context, program *entity.Program) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Program, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Program, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	CreateBatch(ctx context.Context, documents []*entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.Document, error)
}
