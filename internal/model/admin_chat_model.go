package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminUserChat is the one row per user<->admin pairing, carrying unread
// counters for each side.
type AdminUserChat struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserId        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	AdminId       *uuid.UUID `gorm:"type:uuid;index" json:"admin_id,omitempty"`
	UserUnread    int        `gorm:"not null;default:0" json:"user_unread"`
	AdminUnread   int        `gorm:"not null;default:0" json:"admin_unread"`
	LastMessageAt *time.Time `gorm:"index" json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AdminUserChat) TableName() string {
	return "admin_user_chats"
}

// AdminUserMessage is append-only; ordering is insertion timestamp only.
type AdminUserMessage struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ChatId     uuid.UUID      `gorm:"type:uuid;not null;index" json:"chat_id"`
	Chat       *AdminUserChat `gorm:"foreignKey:ChatId;constraint:OnDelete:CASCADE" json:"-"`
	SenderId   uuid.UUID      `gorm:"type:uuid;not null" json:"sender_id"`
	SenderRole string         `gorm:"type:varchar(20);not null" json:"sender_role"` // user | admin
	Content    string         `gorm:"type:text;not null" json:"content"`
	IsRead     bool           `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AdminUserMessage) TableName() string {
	return "admin_user_messages"
}

// OnlineUser is ephemeral presence, one row per connected user, overwritten
// on reconnect. Informational only; never gates delivery.
type OnlineUser struct {
	UserId      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ConnectedAt time.Time `gorm:"not null" json:"connected_at"`
	LastSeenAt  time.Time `gorm:"not null" json:"last_seen_at"`
}

func (OnlineUser) TableName() string {
	return "online_users"
}
