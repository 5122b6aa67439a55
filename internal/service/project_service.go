package service

import (
	"context"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProjectService interface {
	List(ctx context.Context) ([]*model.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Create(ctx context.Context, req *dto.CreateProjectRequest) (*model.Project, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListTasks(ctx context.Context, projectId uuid.UUID) ([]*model.ProjectTask, error)
	CreateTask(ctx context.Context, projectId uuid.UUID, req *dto.CreateTaskRequest) (*model.ProjectTask, error)
	UpdateTask(ctx context.Context, taskId uuid.UUID, req *dto.UpdateTaskRequest) (*model.ProjectTask, error)
	DeleteTask(ctx context.Context, taskId uuid.UUID) error
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory) IProjectService {
	return &projectService{uowFactory: uowFactory}
}

func (s *projectService) List(ctx context.Context) ([]*model.Project, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ProjectRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("Project not found")
	}
	return project, nil
}

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest) (*model.Project, error) {
	status := req.Status
	if status == "" {
		status = "todo"
	}
	project := &model.Project{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		AssigneeId:  req.AssigneeId,
		Deadline:    req.Deadline,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProjectRequest) (*model.Project, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProjectRepository()

	project, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("Project not found")
	}

	project.Name = req.Name
	project.Description = req.Description
	if req.Status != "" {
		project.Status = req.Status
	}
	project.AssigneeId = req.AssigneeId
	project.Deadline = req.Deadline
	if err := repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProjectRepository()

	project, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if project == nil {
		return apperr.NotFound("Project not found")
	}
	return repo.Delete(ctx, id)
}

func (s *projectService) ListTasks(ctx context.Context, projectId uuid.UUID) ([]*model.ProjectTask, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ProjectRepository().FindTasks(ctx,
		specification.Filter("project_id", projectId),
		specification.OrderBy{Field: "created_at", Desc: false},
	)
}

func (s *projectService) CreateTask(ctx context.Context, projectId uuid.UUID, req *dto.CreateTaskRequest) (*model.ProjectTask, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProjectRepository()

	project, err := repo.FindOne(ctx, specification.ByID{ID: projectId})
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("Project not found")
	}

	status := req.Status
	if status == "" {
		status = "todo"
	}
	task := &model.ProjectTask{
		Id:          uuid.New(),
		ProjectId:   projectId,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		AssigneeId:  req.AssigneeId,
		Deadline:    req.Deadline,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *projectService) UpdateTask(ctx context.Context, taskId uuid.UUID, req *dto.UpdateTaskRequest) (*model.ProjectTask, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProjectRepository()

	task, err := repo.FindTask(ctx, specification.ByID{ID: taskId})
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("Task not found")
	}

	task.Title = req.Title
	task.Description = req.Description
	if req.Status != "" {
		task.Status = req.Status
	}
	task.AssigneeId = req.AssigneeId
	task.Deadline = req.Deadline
	if err := repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *projectService) DeleteTask(ctx context.Context, taskId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProjectRepository()

	task, err := repo.FindTask(ctx, specification.ByID{ID: taskId})
	if err != nil {
		return err
	}
	if task == nil {
		return apperr.NotFound("Task not found")
	}
	return repo.DeleteTask(ctx, taskId)
}
