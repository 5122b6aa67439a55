package service

import (
	"context"
	"time"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAdminService interface {
	Stats(ctx context.Context) (*dto.AdminStatsResponse, error)
	GetTheme(ctx context.Context) (*model.ThemeSetting, error)
	UpdateTheme(ctx context.Context, req *dto.UpdateThemeRequest) (*model.ThemeSetting, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory) IAdminService {
	return &adminService{uowFactory: uowFactory}
}

func (s *adminService) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats := &dto.AdminStatsResponse{}

	var err error
	if stats.TotalUsers, err = uow.UserRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = uow.UserRepository().Count(ctx, specification.ActiveUsers{}); err != nil {
		return nil, err
	}
	if stats.TotalAdmins, err = uow.UserRepository().CountByRole(ctx, "admin"); err != nil {
		return nil, err
	}
	if stats.TotalPrograms, err = uow.ProgramRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDocuments, err = uow.DocumentRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProjects, err = uow.ProjectRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.OpenTickets, err = uow.SupportRepository().CountTickets(ctx, specification.Filter("status", "open")); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = uow.SupportRepository().CountAccountRequests(ctx, specification.Filter("status", "pending")); err != nil {
		return nil, err
	}
	if stats.ActivitiesLast7Days, err = uow.ActivityRepository().CountSince(ctx, time.Now().Add(-7*24*time.Hour)); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetTheme lazily creates the singleton row with defaults on first read.
func (s *adminService) GetTheme(ctx context.Context) (*model.ThemeSetting, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AdminRepository()

	theme, err := repo.GetTheme(ctx)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		theme = &model.ThemeSetting{
			Id:           uuid.New(),
			OrgName:      "LingoDocs",
			PrimaryColor: "#1a73e8",
		}
		if err := repo.SaveTheme(ctx, theme); err != nil {
			return nil, err
		}
	}
	return theme, nil
}

func (s *adminService) UpdateTheme(ctx context.Context, req *dto.UpdateThemeRequest) (*model.ThemeSetting, error) {
	theme, err := s.GetTheme(ctx)
	if err != nil {
		return nil, err
	}

	theme.OrgName = req.OrgName
	theme.PrimaryColor = req.PrimaryColor
	theme.LogoURL = req.LogoURL

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AdminRepository().SaveTheme(ctx, theme); err != nil {
		return nil, err
	}
	return theme, nil
}
