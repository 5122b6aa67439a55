package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is the content; delivery/read state lives on UserNotification.
type Notification struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Type      string         `gorm:"type:varchar(50);not null;default:'info'" json:"type"`
	// No column default here: gorm skips zero-value fields that carry one,
	// which would turn every targeted notification into a global one.
	IsGlobal  bool           `gorm:"not null" json:"is_global"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// UserNotification is the per-recipient delivery record materialized by the
// fan-out at creation time. is_read flips once, never back.
type UserNotification struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserId         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_notification,priority:1" json:"user_id"`
	NotificationId uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_notification,priority:2" json:"notification_id"`
	Notification   *Notification `gorm:"foreignKey:NotificationId;constraint:OnDelete:CASCADE" json:"notification,omitempty"`
	IsRead         bool       `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (UserNotification) TableName() string {
	return "user_notifications"
}

// NotificationType maps domain events onto notification templates; the NATS
// worker consults this registry to decide who gets told about what.
type NotificationType struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"type:varchar(50);unique;not null" json:"code"`
	DisplayName string    `gorm:"type:varchar(100);not null" json:"display_name"`
	Template    string    `gorm:"type:text;not null" json:"template"`
	TargetType  string    `gorm:"type:varchar(20);not null" json:"target_type"` // "SELF", "ADMIN", "ROLE"
	TargetRole  string    `gorm:"type:varchar(50)" json:"target_role,omitempty"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NotificationType) TableName() string {
	return "notification_types"
}
