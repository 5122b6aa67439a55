package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity rows are append-only; nothing in normal operation mutates or
// deletes them.
type Activity struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserId      *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Type        string         `gorm:"type:varchar(50);not null;index" json:"type"`
	Description string         `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	IpAddress   string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string         `gorm:"type:text" json:"user_agent"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}
