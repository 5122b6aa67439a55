package service

import (
	"context"
	"testing"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationFixture(t *testing.T) (INotificationService, *stubDelivery, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	delivery := newStubDelivery()
	svc := NewNotificationService(factory, nil, delivery, noopLogger{})
	return svc, delivery, db
}

func TestGlobalNotificationFansOutToAllUsers(t *testing.T) {
	svc, delivery, db := newNotificationFixture(t)
	ctx := context.Background()

	ids := make([]uuid.UUID, 3)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		ids[i] = seedUser(t, db, email, nil)
	}

	notification, err := svc.Create(ctx, &dto.CreateNotificationRequest{
		Title:   "Bảo trì hệ thống",
		Message: "Hệ thống sẽ bảo trì lúc 22h",
	}, nil)
	require.NoError(t, err)
	assert.True(t, notification.IsGlobal)
	assert.Equal(t, "info", notification.Type)

	// One delivery row per user existing at creation time.
	var count int64
	require.NoError(t, db.Model(&model.UserNotification{}).
		Where("notification_id = ?", notification.Id).
		Count(&count).Error)
	assert.EqualValues(t, 3, count)

	assert.Len(t, delivery.broadcasts, 1)

	// A user created afterwards does not receive it retroactively.
	lateId := seedUser(t, db, "late@example.com", nil)
	unread, err := svc.UnreadCount(ctx, lateId)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestTargetedNotificationReachesOnlyListedUsers(t *testing.T) {
	svc, delivery, db := newNotificationFixture(t)
	ctx := context.Background()

	target := seedUser(t, db, "target@example.com", nil)
	bystander := seedUser(t, db, "bystander@example.com", nil)

	isGlobal := false
	notification, err := svc.Create(ctx, &dto.CreateNotificationRequest{
		Title:    "Riêng bạn",
		Message:  "Tài liệu mới được chia sẻ với bạn",
		IsGlobal: &isGlobal,
		UserIds:  []uuid.UUID{target},
	}, nil)
	require.NoError(t, err)
	assert.False(t, notification.IsGlobal)

	// The persisted row must agree; a column default must not override the
	// explicit false on insert.
	var stored model.Notification
	require.NoError(t, db.First(&stored, "id = ?", notification.Id).Error)
	assert.False(t, stored.IsGlobal)

	targetUnread, err := svc.UnreadCount(ctx, target)
	require.NoError(t, err)
	assert.EqualValues(t, 1, targetUnread)

	otherUnread, err := svc.UnreadCount(ctx, bystander)
	require.NoError(t, err)
	assert.EqualValues(t, 0, otherUnread)

	assert.Len(t, delivery.sent[target], 1)
	assert.Empty(t, delivery.sent[bystander])
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc, _, db := newNotificationFixture(t)
	ctx := context.Background()

	userId := seedUser(t, db, "reader@example.com", nil)
	notification, err := svc.Create(ctx, &dto.CreateNotificationRequest{
		Title:   "Thông báo",
		Message: "Nội dung",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, userId, notification.Id))

	unread, err := svc.UnreadCount(ctx, userId)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)

	// Repeating changes nothing and still succeeds.
	require.NoError(t, svc.MarkRead(ctx, userId, notification.Id))
	unread, err = svc.UnreadCount(ctx, userId)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestMarkAllRead(t *testing.T) {
	svc, _, db := newNotificationFixture(t)
	ctx := context.Background()

	userId := seedUser(t, db, "reader@example.com", nil)
	for _, title := range []string{"Một", "Hai", "Ba"} {
		_, err := svc.Create(ctx, &dto.CreateNotificationRequest{Title: title, Message: "x"}, nil)
		require.NoError(t, err)
	}

	unread, err := svc.UnreadCount(ctx, userId)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	require.NoError(t, svc.MarkAllRead(ctx, userId))

	unread, err = svc.UnreadCount(ctx, userId)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestListForUserOrdersNewestFirst(t *testing.T) {
	svc, _, db := newNotificationFixture(t)
	ctx := context.Background()

	userId := seedUser(t, db, "reader@example.com", nil)
	for _, title := range []string{"first", "second"} {
		_, err := svc.Create(ctx, &dto.CreateNotificationRequest{Title: title, Message: "x"}, nil)
		require.NoError(t, err)
	}

	views, err := svc.ListForUser(ctx, userId, 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "second", views[0].Notification.Title)
	assert.Equal(t, "first", views[1].Notification.Title)
}

func TestSaveTypeUpsertsByCode(t *testing.T) {
	svc, _, _ := newNotificationFixture(t)
	ctx := context.Background()

	created, err := svc.SaveType(ctx, &dto.SaveNotificationTypeRequest{
		Code:        "TICKET_CREATED",
		DisplayName: "New Ticket",
		Template:    "Yêu cầu hỗ trợ mới: {{subject}}",
		TargetType:  "ADMIN",
	})
	require.NoError(t, err)

	updated, err := svc.SaveType(ctx, &dto.SaveNotificationTypeRequest{
		Code:        "TICKET_CREATED",
		DisplayName: "Ticket mới",
		Template:    "Yêu cầu hỗ trợ mới: {{subject}}",
		TargetType:  "ADMIN",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ticket mới", updated.DisplayName)

	types, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)
}

func TestSaveTypePersistsInactiveFlag(t *testing.T) {
	svc, _, db := newNotificationFixture(t)
	ctx := context.Background()

	inactive := false
	created, err := svc.SaveType(ctx, &dto.SaveNotificationTypeRequest{
		Code:        "MESSAGE_SENT",
		DisplayName: "Tin nhắn mới",
		Template:    "{{sender}} vừa nhắn tin",
		TargetType:  "ADMIN",
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	var stored model.NotificationType
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.False(t, stored.IsActive)
}
