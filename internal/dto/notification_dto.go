package dto

import "github.com/google/uuid"

type CreateNotificationRequest struct {
	Title    string                 `json:"title" validate:"required,max=200"`
	Message  string                 `json:"message" validate:"required"`
	Type     string                 `json:"type" validate:"omitempty,oneof=info warning success error"`
	IsGlobal *bool                  `json:"is_global"`
	UserIds  []uuid.UUID            `json:"user_ids"`
	Metadata map[string]interface{} `json:"metadata"`
}

type SaveNotificationTypeRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Template    string `json:"template" validate:"required"`
	TargetType  string `json:"target_type" validate:"required,oneof=SELF ADMIN ROLE"`
	TargetRole  string `json:"target_role" validate:"required_if=TargetType ROLE"`
	IsActive    *bool  `json:"is_active"`
}
