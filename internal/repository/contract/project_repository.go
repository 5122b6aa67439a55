package contract

import (
	"context"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*model.Project, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Project, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	CreateTask(ctx context.Context, task *model.ProjectTask) error
	UpdateTask(ctx context.Context, task *model.ProjectTask) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
	FindTask(ctx context.Context, specs ...specification.Specification) (*model.ProjectTask, error)
	FindTasks(ctx context.Context, specs ...specification.Specification) ([]*model.ProjectTask, error)
}
