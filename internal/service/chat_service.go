package service

import (
	"context"
	"time"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/pkg/events"

	"github.com/google/uuid"
)

// chatHistoryLimit bounds how many messages a single history fetch returns.
const chatHistoryLimit = 200

// ChatPusher is the realtime hand-off point; the websocket hub implements
// it. Pushes are best effort, the database row is the source of truth.
type ChatPusher interface {
	PushToUser(userId uuid.UUID, event string, payload interface{})
	PushToAdmins(event string, payload interface{})
}

type IChatService interface {
	EnsureChat(ctx context.Context, userId uuid.UUID) (*model.AdminUserChat, error)
	SendUserMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatMessageRequest) (*model.AdminUserMessage, error)
	SendAdminMessage(ctx context.Context, adminId uuid.UUID, req *dto.AdminSendChatMessageRequest) (*model.AdminUserMessage, error)
	ListMessages(ctx context.Context, chatId uuid.UUID, requester uuid.UUID, isAdmin bool) ([]*model.AdminUserMessage, error)
	ListChats(ctx context.Context) ([]*model.AdminUserChat, error)
	ListOnline(ctx context.Context) ([]*model.OnlineUser, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	pusher     ChatPusher
	publisher  EventPublisher
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	pusher ChatPusher,
	publisher EventPublisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		pusher:     pusher,
		publisher:  publisher,
		logger:     log,
	}
}

// EnsureChat returns the user's single support chat, creating it on first
// contact.
func (s *chatService) EnsureChat(ctx context.Context, userId uuid.UUID) (*model.AdminUserChat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AdminChatRepository()

	chat, err := repo.FindChatByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if chat != nil {
		return chat, nil
	}

	chat = &model.AdminUserChat{
		Id:     uuid.New(),
		UserId: userId,
	}
	if err := repo.CreateChat(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) SendUserMessage(ctx context.Context, userId uuid.UUID, req *dto.SendChatMessageRequest) (*model.AdminUserMessage, error) {
	chat, err := s.EnsureChat(ctx, userId)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, chat, userId, "user", req.Content)
}

func (s *chatService) SendAdminMessage(ctx context.Context, adminId uuid.UUID, req *dto.AdminSendChatMessageRequest) (*model.AdminUserMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := uow.AdminChatRepository().FindChatById(ctx, req.ChatId)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperr.NotFound("Chat not found")
	}
	return s.deliver(ctx, chat, adminId, "admin", req.Content)
}

func (s *chatService) deliver(ctx context.Context, chat *model.AdminUserChat, senderId uuid.UUID, senderRole, content string) (*model.AdminUserMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AdminChatRepository()

	msg := &model.AdminUserMessage{
		Id:         uuid.New(),
		ChatId:     chat.Id,
		SenderId:   senderId,
		SenderRole: senderRole,
		Content:    content,
	}
	if err := repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	// Unread goes up on the side that did NOT send.
	otherSide := "admin"
	if senderRole == "admin" {
		otherSide = "user"
	}
	if err := repo.IncrementUnread(ctx, chat.Id, otherSide, time.Now()); err != nil {
		s.logger.Warn("chat", "failed to bump unread counter", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
	}

	if s.pusher != nil {
		if senderRole == "admin" {
			s.pusher.PushToUser(chat.UserId, "new_message", msg)
		} else {
			s.pusher.PushToAdmins("new_message", msg)
		}
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.New(events.TypeMessageSent, map[string]interface{}{
			"chat_id":     chat.Id.String(),
			"user_id":     chat.UserId.String(),
			"sender_id":   senderId.String(),
			"sender_role": senderRole,
		}))
	}
	return msg, nil
}

// ListMessages returns recent history and clears the reader's unread
// counter as a side effect.
func (s *chatService) ListMessages(ctx context.Context, chatId uuid.UUID, requester uuid.UUID, isAdmin bool) ([]*model.AdminUserMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AdminChatRepository()

	chat, err := repo.FindChatById(ctx, chatId)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperr.NotFound("Chat not found")
	}
	if !isAdmin && chat.UserId != requester {
		return nil, apperr.Forbidden("Not your chat")
	}

	messages, err := repo.FindMessages(ctx, chatId, chatHistoryLimit)
	if err != nil {
		return nil, err
	}

	side := "user"
	if isAdmin {
		side = "admin"
	}
	if err := repo.ResetUnread(ctx, chatId, side); err != nil {
		s.logger.Warn("chat", "failed to reset unread counter", map[string]interface{}{
			"chat_id": chatId.String(),
			"error":   err.Error(),
		})
	}
	return messages, nil
}

func (s *chatService) ListChats(ctx context.Context) ([]*model.AdminUserChat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AdminChatRepository().ListChats(ctx)
}

func (s *chatService) ListOnline(ctx context.Context) ([]*model.OnlineUser, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AdminChatRepository().ListOnline(ctx)
}
