package dto

import "github.com/google/uuid"

type CreateProgramRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type UpdateProgramRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type CreateCategoryRequest struct {
	ProgramId   uuid.UUID `json:"program_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	ProgramId   uuid.UUID `json:"program_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
}

type DocumentLinkPayload struct {
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description"`
}

type CreateDocumentRequest struct {
	Title      string                `json:"title" validate:"required"`
	ProgramId  *uuid.UUID            `json:"program_id"`
	CategoryId *uuid.UUID            `json:"category_id"`
	Links      []DocumentLinkPayload `json:"links" validate:"required,min=1,dive"`
}

type UpdateDocumentRequest struct {
	Title      string                `json:"title" validate:"required"`
	ProgramId  *uuid.UUID            `json:"program_id"`
	CategoryId *uuid.UUID            `json:"category_id"`
	Links      []DocumentLinkPayload `json:"links" validate:"required,min=1,dive"`
}

// BulkDocumentsRequest deliberately lacks a min=1 tag: the empty-array case
// gets its own message from the service.
type BulkDocumentsRequest struct {
	Documents []CreateDocumentRequest `json:"documents" validate:"dive"`
}
