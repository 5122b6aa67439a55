package service

import (
	"context"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"
	"lingodocs-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IUserService interface {
	List(ctx context.Context) ([]*entity.User, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Create(ctx context.Context, adminId uuid.UUID, req *dto.CreateUserRequest, ip, userAgent string) (*entity.User, error)
	Update(ctx context.Context, adminId, id uuid.UUID, req *dto.UpdateUserRequest, ip, userAgent string) (*entity.User, error)
	Delete(ctx context.Context, adminId, id uuid.UUID, ip, userAgent string) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	store      session.Store
	activity   IActivityService
	publisher  EventPublisher
	logger     logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	store session.Store,
	activity IActivityService,
	publisher EventPublisher,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory: uowFactory,
		store:      store,
		activity:   activity,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *userService) List(ctx context.Context) ([]*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, adminId uuid.UUID, req *dto.CreateUserRequest, ip, userAgent string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	existing, err := userRepo.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("Email đã được sử dụng")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	role := entity.UserRoleUser
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: &hashStr,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
		AuthProvider: entity.AuthProviderManual,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.activity.Track(ctx, &adminId, ActivityAdminAction, "Created user "+user.Email, map[string]interface{}{
		"target_user_id": user.Id.String(),
		"role":           string(role),
	}, ip, userAgent)

	return user, nil
}

func (s *userService) Update(ctx context.Context, adminId, id uuid.UUID, req *dto.UpdateUserRequest, ip, userAgent string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}
	deactivated := false
	if req.IsActive != nil {
		deactivated = user.IsActive && !*req.IsActive
		user.IsActive = *req.IsActive
	}

	if err := userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if deactivated {
		// A disabled account loses its sessions immediately.
		if err := s.store.DestroyByUser(ctx, user.Id); err != nil {
			s.logger.Warn("user", "failed to destroy sessions of deactivated user", map[string]interface{}{
				"user_id": user.Id.String(),
				"error":   err.Error(),
			})
		}
		if s.publisher != nil {
			_ = s.publisher.Publish(ctx, events.New(events.TypeUserDeactivated, map[string]interface{}{
				"user_id": user.Id.String(),
				"email":   user.Email,
				"reason":  "admin_action",
			}))
		}
	}

	s.activity.Track(ctx, &adminId, ActivityAdminAction, "Updated user "+user.Email, map[string]interface{}{
		"target_user_id": user.Id.String(),
	}, ip, userAgent)

	return user, nil
}

func (s *userService) Delete(ctx context.Context, adminId, id uuid.UUID, ip, userAgent string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}
	if user.Id == adminId {
		return apperr.Validation("Cannot delete your own account")
	}

	if err := userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.DestroyByUser(ctx, id); err != nil {
		s.logger.Warn("user", "failed to destroy sessions of deleted user", map[string]interface{}{
			"user_id": id.String(),
			"error":   err.Error(),
		})
	}

	s.activity.Track(ctx, &adminId, ActivityAdminAction, "Deleted user "+user.Email, map[string]interface{}{
		"target_user_id": id.String(),
	}, ip, userAgent)
	return nil
}
