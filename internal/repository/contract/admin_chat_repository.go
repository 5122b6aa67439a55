package contract

import (
	"context"
	"time"

	"lingodocs-be/internal/model"

	"github.com/google/uuid"
)

type AdminChatRepository interface {
	FindChatByUser(ctx context.Context, userId uuid.UUID) (*model.AdminUserChat, error)
	FindChatById(ctx context.Context, id uuid.UUID) (*model.AdminUserChat, error)
	CreateChat(ctx context.Context, chat *model.AdminUserChat) error
	ListChats(ctx context.Context) ([]*model.AdminUserChat, error)

	CreateMessage(ctx context.Context, message *model.AdminUserMessage) error
	FindMessages(ctx context.Context, chatId uuid.UUID, limit int) ([]*model.AdminUserMessage, error)
	IncrementUnread(ctx context.Context, chatId uuid.UUID, side string, at time.Time) error
	ResetUnread(ctx context.Context, chatId uuid.UUID, side string) error

	UpsertOnline(ctx context.Context, row *model.OnlineUser) error
	TouchOnline(ctx context.Context, userId uuid.UUID, at time.Time) error
	DeleteOnline(ctx context.Context, userId uuid.UUID) error
	ListOnline(ctx context.Context) ([]*model.OnlineUser, error)
}
