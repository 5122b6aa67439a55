package entity

import (
	"time"

	"github.com/google/uuid"
)

type Program struct {
	Id          uuid.UUID
	Name        string
	Description string
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category belongs to exactly one Program.
type Category struct {
	Id          uuid.UUID
	ProgramId   uuid.UUID
	Name        string
	Description string
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DocumentLink struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Document belongs to at most one Category and at most one Program. When both
// are set the category must live under the same program; the content service
// enforces that since the schema cannot.
type Document struct {
	Id         uuid.UUID
	Title      string
	ProgramId  *uuid.UUID
	CategoryId *uuid.UUID
	Links      []DocumentLink
	CreatedBy  *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
