package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Program struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	SortOrder   int       `gorm:"default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Program) TableName() string {
	return "programs"
}

type Category struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProgramId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Program     Program   `gorm:"foreignKey:ProgramId;constraint:OnDelete:CASCADE"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	SortOrder   int       `gorm:"default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}

type Document struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Title      string         `gorm:"type:varchar(500);not null"`
	ProgramId  *uuid.UUID     `gorm:"type:uuid;index"`
	CategoryId *uuid.UUID     `gorm:"type:uuid;index"`
	Links      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
