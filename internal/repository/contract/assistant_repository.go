package contract

import (
	"context"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ScoredArticle is a knowledge base article with its similarity score
// against a query embedding.
type ScoredArticle struct {
	model.KbArticle
	Score float64 `json:"score"`
}

type AssistantRepository interface {
	CreateConversation(ctx context.Context, conversation *model.ChatConversation) error
	UpdateConversation(ctx context.Context, conversation *model.ChatConversation) error
	DeleteConversation(ctx context.Context, id uuid.UUID) error
	FindConversation(ctx context.Context, specs ...specification.Specification) (*model.ChatConversation, error)
	FindConversations(ctx context.Context, specs ...specification.Specification) ([]*model.ChatConversation, error)

	CreateMessage(ctx context.Context, message *model.ChatMessage) error
	FindMessages(ctx context.Context, conversationId uuid.UUID) ([]*model.ChatMessage, error)

	CreateArticle(ctx context.Context, article *model.KbArticle) error
	UpdateArticle(ctx context.Context, article *model.KbArticle) error
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	FindArticles(ctx context.Context, specs ...specification.Specification) ([]*model.KbArticle, error)
	SearchArticles(ctx context.Context, embedding pgvector.Vector, limit int) ([]*ScoredArticle, error)

	CreateFaq(ctx context.Context, faq *model.KbFaq) error
	DeleteFaq(ctx context.Context, id uuid.UUID) error
	FindFaqs(ctx context.Context, specs ...specification.Specification) ([]*model.KbFaq, error)

	CreateKbCategory(ctx context.Context, category *model.KbCategory) error
	FindKbCategories(ctx context.Context) ([]*model.KbCategory, error)

	CreateTrainingFile(ctx context.Context, file *model.TrainingFile) error
	UpdateTrainingFileStatus(ctx context.Context, id uuid.UUID, status string) error
	FindTrainingFile(ctx context.Context, specs ...specification.Specification) (*model.TrainingFile, error)
	FindTrainingFiles(ctx context.Context, specs ...specification.Specification) ([]*model.TrainingFile, error)
}
