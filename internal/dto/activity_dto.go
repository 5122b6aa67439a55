package dto

import "github.com/google/uuid"

type TrackActivityRequest struct {
	Type        string                 `json:"type" validate:"required,max=50"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type ActivityQuery struct {
	UserId *uuid.UUID `query:"user_id"`
	Type   string     `query:"type"`
	Limit  int        `query:"limit"`
	Offset int        `query:"offset"`
}
