package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(50);not null;default:'todo'" json:"status"`
	AssigneeId  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

type ProjectTask struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectId   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectId;constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(50);not null;default:'todo'" json:"status"`
	AssigneeId  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProjectTask) TableName() string {
	return "project_tasks"
}
