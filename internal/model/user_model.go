package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    *string   `gorm:"type:varchar(255)"`
	FirstName       string    `gorm:"type:varchar(255);not null;default:''"`
	LastName        string    `gorm:"type:varchar(255);not null;default:''"`
	ProfileImageURL *string   `gorm:"type:text"`
	Role            string    `gorm:"type:varchar(50);not null;default:'user'"`
	IsActive        bool      `gorm:"not null"`
	AuthProvider    string    `gorm:"type:varchar(50);not null;default:'manual'"`
	OidcSub         *string   `gorm:"type:varchar(255);uniqueIndex"`
	GoogleId        *string   `gorm:"type:varchar(255);uniqueIndex"`
	LastLoginAt     *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type PasswordResetToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(255);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Session backs the primary session store. Data holds the serialized
// principal; expiry is enforced on read as well as by the cleanup sweep.
type Session struct {
	Sid       string         `gorm:"type:varchar(128);primaryKey"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	ExpiresAt time.Time      `gorm:"not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
