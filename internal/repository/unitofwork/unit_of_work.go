package unitofwork

import (
	"context"

	"lingodocs-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProgramRepository() contract.ProgramRepository
	CategoryRepository() contract.CategoryRepository
	DocumentRepository() contract.DocumentRepository
	NotificationRepository() contract.NotificationRepository
	ActivityRepository() contract.ActivityRepository
	ProjectRepository() contract.ProjectRepository
	SupportRepository() contract.SupportRepository
	AssistantRepository() contract.AssistantRepository
	AdminChatRepository() contract.AdminChatRepository
	AdminRepository() contract.AdminRepository
}
