package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/pkg/mailer"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"
	"lingodocs-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EventPublisher decouples services from the concrete NATS client so tests
// can stub the bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*entity.User, string, error)
	Logout(ctx context.Context, sid string, userId uuid.UUID, ip, userAgent string) error
	Me(ctx context.Context, userId uuid.UUID) (*entity.User, error)
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	store      session.Store
	email      mailer.IEmailService
	publisher  EventPublisher
	activity   IActivityService
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	store session.Store,
	email mailer.IEmailService,
	publisher EventPublisher,
	activity IActivityService,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		store:      store,
		email:      email,
		publisher:  publisher,
		activity:   activity,
		logger:     log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*entity.User, error) {
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

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: &hashStr,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         entity.UserRoleUser,
		IsActive:     true,
		AuthProvider: entity.AuthProviderManual,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login deliberately distinguishes "unknown email" from "wrong password" for
// the login form's own UX; neither carries a machine-readable code.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*entity.User, string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.Unauthorized("Email không tồn tại")
	}
	if user.PasswordHash == nil {
		return nil, "", apperr.Unauthorized("Mật khẩu không đúng")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperr.Unauthorized("Mật khẩu không đúng")
	}
	if !user.IsActive {
		return nil, "", apperr.Unauthorized("Tài khoản đã bị vô hiệu hóa")
	}

	now := time.Now()
	if err := userRepo.UpdateLastLogin(ctx, user.Id, now); err != nil {
		return nil, "", err
	}
	user.LastLoginAt = &now

	sid := serverutils.NewSid()
	sess := &session.Session{
		Sid: sid,
		Principal: session.Principal{
			UserID:   user.Id,
			Role:     string(user.Role),
			Provider: string(entity.AuthProviderManual),
		},
		ExpiresAt: now.Add(session.TTL),
	}
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, "", err
	}

	s.activity.Track(ctx, &user.Id, ActivityLogin, "User logged in", nil, ip, userAgent)
	s.publishEvent(ctx, events.New(events.TypeUserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	}))

	return user, sid, nil
}

func (s *authService) Logout(ctx context.Context, sid string, userId uuid.UUID, ip, userAgent string) error {
	if err := s.store.Destroy(ctx, sid); err != nil {
		return err
	}
	s.activity.Track(ctx, &userId, ActivityLogout, "User logged out", nil, ip, userAgent)
	return nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}
	if user.PasswordHash == nil {
		return apperr.Validation("Tài khoản này đăng nhập qua nhà cung cấp ngoài")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperr.Unauthorized("Mật khẩu không đúng")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return userRepo.UpdatePassword(ctx, userId, string(hash))
}

// ForgotPassword always reports success so the endpoint cannot be used to
// probe which emails exist.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil || user.PasswordHash == nil {
		return nil
	}

	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	token := hex.EncodeToString(buf)

	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := userRepo.CreatePasswordResetToken(ctx, resetToken); err != nil {
		return err
	}

	go func() {
		if err := s.email.SendResetToken(user.Email, token); err != nil {
			s.logger.Error("auth", "failed to send reset email", map[string]interface{}{"error": err.Error()})
		}
	}()
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	token, err := userRepo.FindPasswordResetToken(ctx, specification.ByToken{Token: req.Token})
	if err != nil {
		return err
	}
	if token == nil || token.Used || time.Now().After(token.ExpiresAt) {
		return apperr.Validation("Token không hợp lệ hoặc đã hết hạn")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := userRepo.UpdatePassword(ctx, token.UserId, string(hash)); err != nil {
		return err
	}
	return userRepo.MarkTokenUsed(ctx, token.Id)
}

func (s *authService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("auth", "failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
