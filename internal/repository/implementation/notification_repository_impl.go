package implementation

import (
	"context"
	"errors"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/contract"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateUserNotifications(ctx context.Context, rows []*model.UserNotification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 500).Error
}

func (r *NotificationRepositoryImpl) FindForUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*contract.UserNotificationView, error) {
	var rows []*model.UserNotification
	err := r.db.WithContext(ctx).
		Preload("Notification").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]*contract.UserNotificationView, 0, len(rows))
	for _, row := range rows {
		view := &contract.UserNotificationView{UserNotification: *row}
		if row.Notification != nil {
			view.Notification = *row.Notification
		}
		view.UserNotification.Notification = nil
		views = append(views, view)
	}
	return views, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Count(&count).Error
	return count, err
}

// MarkRead only touches unread rows so repeated calls are harmless and the
// original read_at survives.
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, userId, notificationId uuid.UUID) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ? AND notification_id = ? AND is_read = ?", userId, notificationId, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userId uuid.UUID) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Notification{}).Error
}

func (r *NotificationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.Notification, error) {
	var rows []*model.Notification
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *NotificationRepositoryImpl) FindTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	var t model.NotificationType
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *NotificationRepositoryImpl) ListTypes(ctx context.Context) ([]*model.NotificationType, error) {
	var types []*model.NotificationType
	err := r.db.WithContext(ctx).Order("code ASC").Find(&types).Error
	return types, err
}

func (r *NotificationRepositoryImpl) SaveType(ctx context.Context, t *model.NotificationType) error {
	return r.db.WithContext(ctx).Save(t).Error
}
