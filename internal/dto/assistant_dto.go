package dto

import "github.com/google/uuid"

type AskRequest struct {
	ConversationId *uuid.UUID `json:"conversation_id"`
	Question       string     `json:"question" validate:"required"`
}

type AskResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	Answer         string    `json:"answer"`
	Source         string    `json:"source"` // faq | knowledge_base | none
}

type RenameConversationRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type CreateFaqRequest struct {
	CategoryId *uuid.UUID `json:"category_id"`
	Question   string     `json:"question" validate:"required"`
	Answer     string     `json:"answer" validate:"required"`
}

type CreateKbArticleRequest struct {
	CategoryId *uuid.UUID `json:"category_id"`
	Title      string     `json:"title" validate:"required,max=500"`
	Content    string     `json:"content" validate:"required"`
}

type CreateKbCategoryRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	SortOrder int    `json:"sort_order"`
}

type UploadTrainingFileRequest struct {
	FileName string `json:"file_name" validate:"required,max=500"`
	Content  string `json:"content" validate:"required"`
}
