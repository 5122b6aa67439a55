package implementation

import (
	"context"
	"errors"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/contract"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type AssistantRepositoryImpl struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) contract.AssistantRepository {
	return &AssistantRepositoryImpl{db: db}
}

func (r *AssistantRepositoryImpl) CreateConversation(ctx context.Context, conversation *model.ChatConversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *AssistantRepositoryImpl) UpdateConversation(ctx context.Context, conversation *model.ChatConversation) error {
	return r.db.WithContext(ctx).Save(conversation).Error
}

func (r *AssistantRepositoryImpl) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ChatConversation{}).Error
}

func (r *AssistantRepositoryImpl) FindConversation(ctx context.Context, specs ...specification.Specification) (*model.ChatConversation, error) {
	var row model.ChatConversation
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *AssistantRepositoryImpl) FindConversations(ctx context.Context, specs ...specification.Specification) ([]*model.ChatConversation, error) {
	var rows []*model.ChatConversation
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AssistantRepositoryImpl) CreateMessage(ctx context.Context, message *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *AssistantRepositoryImpl) FindMessages(ctx context.Context, conversationId uuid.UUID) ([]*model.ChatMessage, error) {
	var rows []*model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *AssistantRepositoryImpl) CreateArticle(ctx context.Context, article *model.KbArticle) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *AssistantRepositoryImpl) UpdateArticle(ctx context.Context, article *model.KbArticle) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *AssistantRepositoryImpl) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.KbArticle{}).Error
}

func (r *AssistantRepositoryImpl) FindArticles(ctx context.Context, specs ...specification.Specification) ([]*model.KbArticle, error) {
	var rows []*model.KbArticle
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchArticles orders by cosine distance and reports 1 - distance as the
// similarity score. Embeddings are stored unit-normalized.
func (r *AssistantRepositoryImpl) SearchArticles(ctx context.Context, embedding pgvector.Vector, limit int) ([]*contract.ScoredArticle, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		model.KbArticle
		Score float64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Table("kb_articles").
		Select("kb_articles.*, 1 - (embedding <=> ?) as score", embedding).
		Order(gorm.Expr("embedding <=> ?", embedding)).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredArticle, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredArticle{KbArticle: res.KbArticle, Score: res.Score}
	}
	return scored, nil
}

func (r *AssistantRepositoryImpl) CreateFaq(ctx context.Context, faq *model.KbFaq) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *AssistantRepositoryImpl) DeleteFaq(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.KbFaq{}).Error
}

func (r *AssistantRepositoryImpl) FindFaqs(ctx context.Context, specs ...specification.Specification) ([]*model.KbFaq, error) {
	var rows []*model.KbFaq
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AssistantRepositoryImpl) CreateKbCategory(ctx context.Context, category *model.KbCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *AssistantRepositoryImpl) FindKbCategories(ctx context.Context) ([]*model.KbCategory, error) {
	var rows []*model.KbCategory
	err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&rows).Error
	return rows, err
}

func (r *AssistantRepositoryImpl) CreateTrainingFile(ctx context.Context, file *model.TrainingFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *AssistantRepositoryImpl) UpdateTrainingFileStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.TrainingFile{}).Where("id = ?", id).Update("status", status).Error
}

func (r *AssistantRepositoryImpl) FindTrainingFile(ctx context.Context, specs ...specification.Specification) (*model.TrainingFile, error) {
	var row model.TrainingFile
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *AssistantRepositoryImpl) FindTrainingFiles(ctx context.Context, specs ...specification.Specification) ([]*model.TrainingFile, error) {
	var rows []*model.TrainingFile
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
