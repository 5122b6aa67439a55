package dto

import "github.com/google/uuid"

type AdminStatsResponse struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveUsers         int64 `json:"active_users"`
	TotalAdmins         int64 `json:"total_admins"`
	TotalPrograms       int64 `json:"total_programs"`
	TotalDocuments      int64 `json:"total_documents"`
	TotalProjects       int64 `json:"total_projects"`
	OpenTickets         int64 `json:"open_tickets"`
	PendingRequests     int64 `json:"pending_requests"`
	ActivitiesLast7Days int64 `json:"activities_last_7_days"`
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive  *bool   `json:"is_active"`
}

type UpdateThemeRequest struct {
	OrgName      string  `json:"org_name" validate:"required,max=255"`
	PrimaryColor string  `json:"primary_color" validate:"required,max=20"`
	LogoURL      *string `json:"logo_url"`
}

type SendChatMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type AdminSendChatMessageRequest struct {
	ChatId  uuid.UUID `json:"chat_id" validate:"required"`
	Content string    `json:"content" validate:"required"`
}
