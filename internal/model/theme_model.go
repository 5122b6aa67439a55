package model

import (
	"time"

	"github.com/google/uuid"
)

// ThemeSetting is a singleton row; the admin service creates it lazily.
type ThemeSetting struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrgName      string    `gorm:"type:varchar(255);not null;default:'LingoDocs'" json:"org_name"`
	PrimaryColor string    `gorm:"type:varchar(20);not null;default:'#1a73e8'" json:"primary_color"`
	LogoURL      *string   `gorm:"type:text" json:"logo_url,omitempty"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ThemeSetting) TableName() string {
	return "theme_settings"
}
