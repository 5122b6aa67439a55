package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/contract"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/pkg/events"
	pktNats "lingodocs-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates. Typically
// implemented by the WebSocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type INotificationService interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest, createdBy *uuid.UUID) (*model.Notification, error)
	ListForUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*contract.UserNotificationView, error)
	UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userId, notificationId uuid.UUID) error
	MarkAllRead(ctx context.Context, userId uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListTypes(ctx context.Context) ([]*model.NotificationType, error)
	SaveType(ctx context.Context, req *dto.SaveNotificationTypeRequest) (*model.NotificationType, error)
	Start()
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	subscriber *pktNats.Subscriber,
	delivery NotificationDelivery,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		subscriber: subscriber,
		delivery:   delivery,
		logger:     log,
	}
}

// Create inserts the notification and, for a global one, materializes one
// delivery record per existing user inside the same transaction. The fan-out
// is a snapshot at creation time, not a subscription.
func (s *notificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest, createdBy *uuid.UUID) (*model.Notification, error) {
	isGlobal := req.IsGlobal == nil || *req.IsGlobal

	notifType := req.Type
	if notifType == "" {
		notifType = "info"
	}

	notification := &model.Notification{
		Id:        uuid.New(),
		Title:     req.Title,
		Message:   req.Message,
		Type:      notifType,
		IsGlobal:  isGlobal,
		CreatedBy: createdBy,
	}
	if len(req.Metadata) > 0 {
		if raw, err := json.Marshal(req.Metadata); err == nil {
			notification.Metadata = datatypes.JSON(raw)
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		return nil, err
	}

	var targets []uuid.UUID
	if isGlobal {
		users, err := uow.UserRepository().FindAll(ctx)
		if err != nil {
			return nil, err
		}
		targets = make([]uuid.UUID, len(users))
		for i, u := range users {
			targets[i] = u.Id
		}
	} else {
		targets = req.UserIds
	}

	rows := make([]*model.UserNotification, len(targets))
	for i, userId := range targets {
		rows[i] = &model.UserNotification{
			Id:             uuid.New(),
			UserId:         userId,
			NotificationId: notification.Id,
		}
	}
	if err := uow.NotificationRepository().CreateUserNotifications(ctx, rows); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.delivery != nil {
		if isGlobal {
			s.delivery.Broadcast(*notification)
		} else {
			for _, userId := range targets {
				s.delivery.Send(userId, *notification)
			}
		}
	}
	return notification, nil
}

func (s *notificationService) ListForUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*contract.UserNotificationView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().FindForUser(ctx, userId, limit, offset)
}

func (s *notificationService) UnreadCount(ctx context.Context, userId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().CountUnread(ctx, userId)
}

// MarkRead is idempotent: after the first call, repeats change nothing and
// still succeed.
func (s *notificationService) MarkRead(ctx context.Context, userId, notificationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	_, err := uow.NotificationRepository().MarkRead(ctx, userId, notificationId)
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	_, err := uow.NotificationRepository().MarkAllRead(ctx, userId)
	return err
}

func (s *notificationService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().Delete(ctx, id)
}

func (s *notificationService) ListTypes(ctx context.Context) ([]*model.NotificationType, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().ListTypes(ctx)
}

func (s *notificationService) SaveType(ctx context.Context, req *dto.SaveNotificationTypeRequest) (*model.NotificationType, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotificationRepository()

	existing, err := repo.FindTypeByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	t := existing
	if t == nil {
		t = &model.NotificationType{Code: req.Code, IsActive: true}
	}
	t.DisplayName = req.DisplayName
	t.Template = req.Template
	t.TargetType = req.TargetType
	t.TargetRole = req.TargetRole
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := repo.SaveType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Start begins consuming the event bus. Domain events become notifications
// according to the type registry; unknown or inactive codes are dropped.
func (s *notificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("notification", "no event subscriber configured, worker disabled", nil)
		return
	}
	if err := s.subscriber.Subscribe("portal.>", "notification-worker", s.handleEvent); err != nil {
		s.logger.Error("notification", "failed to start event worker", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("notification", "event worker started, listening on portal.>", nil)
}

func (s *notificationService) handleEvent(ctx context.Context, event events.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NotificationRepository()

	config, err := repo.FindTypeByCode(ctx, event.EventType())
	if err != nil {
		return err
	}
	if config == nil || !config.IsActive {
		return nil
	}

	targets, err := s.resolveTargets(ctx, uow, config, event.Payload())
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}

	notification := &model.Notification{
		Id:       uuid.New(),
		Title:    config.DisplayName,
		Message:  renderTemplate(config.Template, event.Payload()),
		Type:     "info",
		IsGlobal: false,
	}
	if raw, err := json.Marshal(event.Payload()); err == nil {
		notification.Metadata = datatypes.JSON(raw)
	}

	if err := repo.Create(ctx, notification); err != nil {
		return err
	}
	rows := make([]*model.UserNotification, len(targets))
	for i, userId := range targets {
		rows[i] = &model.UserNotification{
			Id:             uuid.New(),
			UserId:         userId,
			NotificationId: notification.Id,
		}
	}
	if err := repo.CreateUserNotifications(ctx, rows); err != nil {
		return err
	}

	if s.delivery != nil {
		for _, userId := range targets {
			s.delivery.Send(userId, *notification)
		}
	}
	return nil
}

func (s *notificationService) resolveTargets(ctx context.Context, uow unitofwork.UnitOfWork, config *model.NotificationType, payload map[string]interface{}) ([]uuid.UUID, error) {
	switch config.TargetType {
	case "SELF":
		raw, _ := payload["user_id"].(string)
		userId, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil
		}
		return []uuid.UUID{userId}, nil
	case "ADMIN":
		admins, err := uow.UserRepository().FindAll(ctx, specification.ByRole{Role: "admin"}, specification.ActiveUsers{})
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, len(admins))
		for i, u := range admins {
			ids[i] = u.Id
		}
		return ids, nil
	case "ROLE":
		users, err := uow.UserRepository().FindAll(ctx, specification.ByRole{Role: config.TargetRole}, specification.ActiveUsers{})
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.Id
		}
		return ids, nil
	}
	return nil, apperr.Validationf("unknown target type %q", config.TargetType)
}

// renderTemplate substitutes {{key}} placeholders with payload values.
func renderTemplate(template string, payload map[string]interface{}) string {
	out := template
	for key, value := range payload {
		out = strings.ReplaceAll(out, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}
	return out
}
