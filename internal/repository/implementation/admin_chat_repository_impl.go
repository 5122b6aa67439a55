package implementation

import (
	"context"
	"errors"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminChatRepositoryImpl struct {
	db *gorm.DB
}

func NewAdminChatRepository(db *gorm.DB) contract.AdminChatRepository {
	return &AdminChatRepositoryImpl{db: db}
}

func (r *AdminChatRepositoryImpl) FindChatByUser(ctx context.Context, userId uuid.UUID) (*model.AdminUserChat, error) {
	var chat model.AdminUserChat
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *AdminChatRepositoryImpl) FindChatById(ctx context.Context, id uuid.UUID) (*model.AdminUserChat, error) {
	var chat model.AdminUserChat
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *AdminChatRepositoryImpl) CreateChat(ctx context.Context, chat *model.AdminUserChat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *AdminChatRepositoryImpl) ListChats(ctx context.Context) ([]*model.AdminUserChat, error) {
	var chats []*model.AdminUserChat
	err := r.db.WithContext(ctx).
		Order("last_message_at DESC NULLS LAST").
		Find(&chats).Error
	return chats, err
}

func (r *AdminChatRepositoryImpl) CreateMessage(ctx context.Context, message *model.AdminUserMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *AdminChatRepositoryImpl) FindMessages(ctx context.Context, chatId uuid.UUID, limit int) ([]*model.AdminUserMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []*model.AdminUserMessage
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatId).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// IncrementUnread bumps the counter of the side that has NOT seen the new
// message and stamps last_message_at in the same update.
func (r *AdminChatRepositoryImpl) IncrementUnread(ctx context.Context, chatId uuid.UUID, side string, at time.Time) error {
	column := "user_unread"
	if side == "admin" {
		column = "admin_unread"
	}
	return r.db.WithContext(ctx).Model(&model.AdminUserChat{}).
		Where("id = ?", chatId).
		Updates(map[string]interface{}{
			column:            gorm.Expr(column+" + 1"),
			"last_message_at": at,
		}).Error
}

func (r *AdminChatRepositoryImpl) ResetUnread(ctx context.Context, chatId uuid.UUID, side string) error {
	column := "user_unread"
	if side == "admin" {
		column = "admin_unread"
	}
	return r.db.WithContext(ctx).Model(&model.AdminUserChat{}).
		Where("id = ?", chatId).
		Update(column, 0).Error
}

func (r *AdminChatRepositoryImpl) UpsertOnline(ctx context.Context, row *model.OnlineUser) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"connected_at", "last_seen_at"}),
	}).Create(row).Error
}

func (r *AdminChatRepositoryImpl) TouchOnline(ctx context.Context, userId uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.OnlineUser{}).
		Where("user_id = ?", userId).
		Update("last_seen_at", at).Error
}

func (r *AdminChatRepositoryImpl) DeleteOnline(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.OnlineUser{}).Error
}

func (r *AdminChatRepositoryImpl) ListOnline(ctx context.Context) ([]*model.OnlineUser, error) {
	var rows []*model.OnlineUser
	err := r.db.WithContext(ctx).Order("connected_at ASC").Find(&rows).Error
	return rows, err
}
