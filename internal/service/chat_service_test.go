package service

import (
	"context"
	"sync"
	"testing"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubPusher struct {
	mu         sync.Mutex
	toUsers    map[uuid.UUID][]string
	toAdmins   []string
	lastToUser interface{}
}

func newStubPusher() *stubPusher {
	return &stubPusher{toUsers: make(map[uuid.UUID][]string)}
}

func (p *stubPusher) PushToUser(userId uuid.UUID, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toUsers[userId] = append(p.toUsers[userId], event)
	p.lastToUser = payload
}

func (p *stubPusher) PushToAdmins(event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toAdmins = append(p.toAdmins, event)
}

func newChatFixture(t *testing.T) (IChatService, *stubPusher, *memPublisher, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	pusher := newStubPusher()
	publisher := &memPublisher{}
	svc := NewChatService(factory, pusher, publisher, noopLogger{})
	return svc, pusher, publisher, db
}

func TestEnsureChatCreatesSingleRowPerUser(t *testing.T) {
	svc, _, _, db := newChatFixture(t)
	ctx := context.Background()
	userId := seedUser(t, db, "linh@example.com", nil)

	first, err := svc.EnsureChat(ctx, userId)
	require.NoError(t, err)
	second, err := svc.EnsureChat(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	var count int64
	require.NoError(t, db.Model(&model.AdminUserChat{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserMessageNotifiesAdmins(t *testing.T) {
	svc, pusher, publisher, db := newChatFixture(t)
	ctx := context.Background()
	userId := seedUser(t, db, "linh@example.com", nil)

	msg, err := svc.SendUserMessage(ctx, userId, &dto.SendChatMessageRequest{Content: "Em cần hỗ trợ"})
	require.NoError(t, err)
	assert.Equal(t, "user", msg.SenderRole)
	assert.Equal(t, "Em cần hỗ trợ", msg.Content)

	assert.Equal(t, []string{"new_message"}, pusher.toAdmins)
	assert.Empty(t, pusher.toUsers[userId], "sender does not get their own push")

	// The admin side's unread counter went up.
	var chat model.AdminUserChat
	require.NoError(t, db.First(&chat, "user_id = ?", userId).Error)
	assert.Equal(t, 1, chat.AdminUnread)
	assert.Equal(t, 0, chat.UserUnread)
	require.NotNil(t, chat.LastMessageAt)

	sent := publisher.byType(events.TypeMessageSent)
	require.Len(t, sent, 1)
	assert.Equal(t, "user", sent[0].Payload()["sender_role"])
}

func TestAdminReplyNotifiesUser(t *testing.T) {
	svc, pusher, _, db := newChatFixture(t)
	ctx := context.Background()
	userId := seedUser(t, db, "linh@example.com", nil)
	adminId := seedUser(t, db, "admin@example.com", nil)

	chat, err := svc.EnsureChat(ctx, userId)
	require.NoError(t, err)

	_, err = svc.SendAdminMessage(ctx, adminId, &dto.AdminSendChatMessageRequest{
		ChatId:  chat.Id,
		Content: "Chào bạn, mình hỗ trợ được gì?",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"new_message"}, pusher.toUsers[userId])
	assert.Empty(t, pusher.toAdmins)

	var row model.AdminUserChat
	require.NoError(t, db.First(&row, "id = ?", chat.Id).Error)
	assert.Equal(t, 1, row.UserUnread)
	assert.Equal(t, 0, row.AdminUnread)
}

func TestAdminMessageToUnknownChat(t *testing.T) {
	svc, _, _, _ := newChatFixture(t)

	_, err := svc.SendAdminMessage(context.Background(), uuid.New(), &dto.AdminSendChatMessageRequest{
		ChatId:  uuid.New(),
		Content: "hello?",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListMessagesEnforcesOwnership(t *testing.T) {
	svc, _, _, db := newChatFixture(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", nil)
	stranger := seedUser(t, db, "stranger@example.com", nil)

	chat, err := svc.EnsureChat(ctx, owner)
	require.NoError(t, err)

	_, err = svc.ListMessages(ctx, chat.Id, stranger, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, "Not your chat", apperr.Message(err))

	// The owner and any admin may read.
	_, err = svc.ListMessages(ctx, chat.Id, owner, false)
	assert.NoError(t, err)
	_, err = svc.ListMessages(ctx, chat.Id, stranger, true)
	assert.NoError(t, err)
}

func TestListMessagesResetsReaderUnread(t *testing.T) {
	svc, _, _, db := newChatFixture(t)
	ctx := context.Background()
	userId := seedUser(t, db, "linh@example.com", nil)

	_, err := svc.SendUserMessage(ctx, userId, &dto.SendChatMessageRequest{Content: "một"})
	require.NoError(t, err)
	_, err = svc.SendUserMessage(ctx, userId, &dto.SendChatMessageRequest{Content: "hai"})
	require.NoError(t, err)

	var chat model.AdminUserChat
	require.NoError(t, db.First(&chat, "user_id = ?", userId).Error)
	require.Equal(t, 2, chat.AdminUnread)

	// An admin reading the thread clears the admin counter only.
	msgs, err := svc.ListMessages(ctx, chat.Id, uuid.New(), true)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	require.NoError(t, db.First(&chat, "id = ?", chat.Id).Error)
	assert.Equal(t, 0, chat.AdminUnread)
}
