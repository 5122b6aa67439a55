package contract

import (
	"context"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
)

// UserNotificationView is a user_notifications row joined with its
// notification payload, shaped for list responses.
type UserNotificationView struct {
	model.UserNotification
	Notification model.Notification `json:"notification"`
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	CreateUserNotifications(ctx context.Context, rows []*model.UserNotification) error
	FindForUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*UserNotificationView, error)
	CountUnread(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userId, notificationId uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Notification, error)

	// Type registry
	FindTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
	ListTypes(ctx context.Context) ([]*model.NotificationType, error)
	SaveType(ctx context.Context, t *model.NotificationType) error
}
