package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeId  *uuid.UUID `json:"assignee_id"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateProjectRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeId  *uuid.UUID `json:"assignee_id"`
	Deadline    *time.Time `json:"deadline"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeId  *uuid.UUID `json:"assignee_id"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeId  *uuid.UUID `json:"assignee_id"`
	Deadline    *time.Time `json:"deadline"`
}
