package implementation

import (
	"context"
	"errors"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/contract"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) contract.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{}).Error
}

func (r *ProjectRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*model.Project, error) {
	var row model.Project
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ProjectRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Project, error) {
	var rows []*model.Project
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProjectRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.Project{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProjectRepositoryImpl) CreateTask(ctx context.Context, task *model.ProjectTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *ProjectRepositoryImpl) UpdateTask(ctx context.Context, task *model.ProjectTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *ProjectRepositoryImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProjectTask{}).Error
}

func (r *ProjectRepositoryImpl) FindTask(ctx context.Context, specs ...specification.Specification) (*model.ProjectTask, error) {
	var row model.ProjectTask
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ProjectRepositoryImpl) FindTasks(ctx context.Context, specs ...specification.Specification) ([]*model.ProjectTask, error) {
	var rows []*model.ProjectTask
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
