package service

import (
	"context"
	"encoding/json"
	"strings"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/contract"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// minArticleScore is the cosine-similarity floor below which a retrieved
// article is considered unrelated to the question.
const minArticleScore = 0.5

const fallbackAnswer = "Xin lỗi, tôi chưa có thông tin về câu hỏi này. Vui lòng liên hệ quản trị viên để được hỗ trợ."

type IAssistantService interface {
	ListConversations(ctx context.Context, userId uuid.UUID) ([]*model.ChatConversation, error)
	GetConversation(ctx context.Context, userId, conversationId uuid.UUID) (*model.ChatConversation, []*model.ChatMessage, error)
	RenameConversation(ctx context.Context, userId, conversationId uuid.UUID, title string) (*model.ChatConversation, error)
	DeleteConversation(ctx context.Context, userId, conversationId uuid.UUID) error
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error)

	ListFaqs(ctx context.Context) ([]*model.KbFaq, error)
	CreateFaq(ctx context.Context, req *dto.CreateFaqRequest) (*model.KbFaq, error)
	DeleteFaq(ctx context.Context, id uuid.UUID) error
	ListKbCategories(ctx context.Context) ([]*model.KbCategory, error)
	CreateKbCategory(ctx context.Context, req *dto.CreateKbCategoryRequest) (*model.KbCategory, error)
	CreateArticle(ctx context.Context, req *dto.CreateKbArticleRequest) (*model.KbArticle, error)
	DeleteArticle(ctx context.Context, id uuid.UUID) error

	UploadTrainingFile(ctx context.Context, uploadedBy uuid.UUID, req *dto.UploadTrainingFileRequest) (*model.TrainingFile, error)
	ListTrainingFiles(ctx context.Context) ([]*model.TrainingFile, error)
}

type assistantService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   embedding.Provider
	pubSub     *gochannel.GoChannel
	topicName  string
	logger     logger.ILogger
}

func NewAssistantService(
	uowFactory unitofwork.RepositoryFactory,
	provider embedding.Provider,
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		uowFactory: uowFactory,
		provider:   provider,
		pubSub:     pubSub,
		topicName:  topicName,
		logger:     log,
	}
}

func (s *assistantService) ListConversations(ctx context.Context, userId uuid.UUID) ([]*model.ChatConversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AssistantRepository().FindConversations(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
}

func (s *assistantService) ownedConversation(ctx context.Context, uow unitofwork.UnitOfWork, userId, conversationId uuid.UUID) (*model.ChatConversation, error) {
	conversation, err := uow.AssistantRepository().FindConversation(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperr.NotFound("Conversation not found")
	}
	if conversation.UserId != userId {
		return nil, apperr.Forbidden("Not your conversation")
	}
	return conversation, nil
}

func (s *assistantService) GetConversation(ctx context.Context, userId, conversationId uuid.UUID) (*model.ChatConversation, []*model.ChatMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.ownedConversation(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, nil, err
	}
	messages, err := uow.AssistantRepository().FindMessages(ctx, conversationId)
	if err != nil {
		return nil, nil, err
	}
	return conversation, messages, nil
}

func (s *assistantService) RenameConversation(ctx context.Context, userId, conversationId uuid.UUID, title string) (*model.ChatConversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.ownedConversation(ctx, uow, userId, conversationId)
	if err != nil {
		return nil, err
	}
	conversation.Title = title
	if err := uow.AssistantRepository().UpdateConversation(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *assistantService) DeleteConversation(ctx context.Context, userId, conversationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedConversation(ctx, uow, userId, conversationId); err != nil {
		return err
	}
	return uow.AssistantRepository().DeleteConversation(ctx, conversationId)
}

// Ask answers from the FAQ list first, then falls back to semantic search
// over the knowledge base, then to a canned apology. Both question and
// answer are appended to the conversation.
func (s *assistantService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AssistantRepository()

	var conversation *model.ChatConversation
	var err error
	if req.ConversationId != nil {
		conversation, err = s.ownedConversation(ctx, uow, userId, *req.ConversationId)
		if err != nil {
			return nil, err
		}
	} else {
		conversation = &model.ChatConversation{
			Id:     uuid.New(),
			UserId: userId,
			Title:  firstWords(req.Question, 8),
		}
		if err := repo.CreateConversation(ctx, conversation); err != nil {
			return nil, err
		}
	}

	userMsg := &model.ChatMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           "user",
		Content:        req.Question,
	}
	if err := repo.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	answer, source := s.resolveAnswer(ctx, repo, req.Question)

	assistantMsg := &model.ChatMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           "assistant",
		Content:        answer,
	}
	if err := repo.CreateMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	// Bump updated_at so the conversation list sorts by recency.
	if err := repo.UpdateConversation(ctx, conversation); err != nil {
		s.logger.Warn("assistant", "failed to touch conversation", map[string]interface{}{"error": err.Error()})
	}

	return &dto.AskResponse{
		ConversationId: conversation.Id,
		Answer:         answer,
		Source:         source,
	}, nil
}

// resolveAnswer tries the FAQ list first because exact curated answers beat
// retrieval, then semantic search over kb_articles. The second return value
// is the answer source: faq, knowledge_base or none.
func (s *assistantService) resolveAnswer(ctx context.Context, repo contract.AssistantRepository, question string) (string, string) {
	normalized := strings.ToLower(strings.TrimSpace(question))

	faqs, err := repo.FindFaqs(ctx)
	if err != nil {
		s.logger.Warn("assistant", "faq lookup failed", map[string]interface{}{"error": err.Error()})
	}
	for _, faq := range faqs {
		faqQuestion := strings.ToLower(strings.TrimSpace(faq.Question))
		if faqQuestion == "" {
			continue
		}
		if strings.Contains(normalized, faqQuestion) || strings.Contains(faqQuestion, normalized) {
			return faq.Answer, "faq"
		}
	}

	vector, err := s.provider.Generate(question)
	if err != nil {
		s.logger.Error("assistant", "embedding generation failed", map[string]interface{}{"error": err.Error()})
		return fallbackAnswer, "none"
	}

	articles, err := repo.SearchArticles(ctx, pgvector.NewVector(vector), 3)
	if err != nil {
		s.logger.Error("assistant", "article search failed", map[string]interface{}{"error": err.Error()})
		return fallbackAnswer, "none"
	}
	if len(articles) == 0 || articles[0].Score < minArticleScore {
		return fallbackAnswer, "none"
	}

	top := articles[0]
	var b strings.Builder
	b.WriteString(top.Content)
	if top.Title != "" {
		b.WriteString("\n\n(Nguồn: ")
		b.WriteString(top.Title)
		b.WriteString(")")
	}
	return b.String(), "knowledge_base"
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	title := strings.Join(words, " ")
	if title == "" {
		title = "Cuộc trò chuyện mới"
	}
	return title
}

func (s *assistantService) ListFaqs(ctx context.Context) ([]*model.KbFaq, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AssistantRepository().FindFaqs(ctx, specification.OrderBy{Field: "created_at", Desc: false})
}

func (s *assistantService) CreateFaq(ctx context.Context, req *dto.CreateFaqRequest) (*model.KbFaq, error) {
	faq := &model.KbFaq{
		Id:         uuid.New(),
		CategoryId: req.CategoryId,
		Question:   req.Question,
		Answer:     req.Answer,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AssistantRepository().CreateFaq(ctx, faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *assistantService) DeleteFaq(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AssistantRepository().DeleteFaq(ctx, id)
}

func (s *assistantService) ListKbCategories(ctx context.Context) ([]*model.KbCategory, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AssistantRepository().FindKbCategories(ctx)
}

func (s *assistantService) CreateKbCategory(ctx context.Context, req *dto.CreateKbCategoryRequest) (*model.KbCategory, error) {
	category := &model.KbCategory{
		Id:        uuid.New(),
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AssistantRepository().CreateKbCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateArticle embeds synchronously; manual article creation is an admin
// action where a small wait beats an unsearchable article.
func (s *assistantService) CreateArticle(ctx context.Context, req *dto.CreateKbArticleRequest) (*model.KbArticle, error) {
	article := &model.KbArticle{
		Id:         uuid.New(),
		CategoryId: req.CategoryId,
		Title:      req.Title,
		Content:    req.Content,
	}

	vector, err := s.provider.Generate(req.Title + "\n" + req.Content)
	if err != nil {
		return nil, err
	}
	article.Embedding = pgvector.NewVector(vector)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AssistantRepository().CreateArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *assistantService) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AssistantRepository().DeleteArticle(ctx, id)
}

// UploadTrainingFile stores the raw file and hands embedding work to the
// ingest worker over the in-process pipeline.
func (s *assistantService) UploadTrainingFile(ctx context.Context, uploadedBy uuid.UUID, req *dto.UploadTrainingFileRequest) (*model.TrainingFile, error) {
	file := &model.TrainingFile{
		Id:         uuid.New(),
		FileName:   req.FileName,
		Content:    req.Content,
		Status:     "pending",
		UploadedBy: &uploadedBy,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AssistantRepository().CreateTrainingFile(ctx, file); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.EmbedTrainingFileMessage{FileId: file.Id})
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("assistant", "failed to publish training file message", map[string]interface{}{
			"file_id": file.Id.String(),
			"error":   err.Error(),
		})
		return nil, err
	}
	return file, nil
}

func (s *assistantService) ListTrainingFiles(ctx context.Context) ([]*model.TrainingFile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AssistantRepository().FindTrainingFiles(ctx, specification.OrderBy{Field: "created_at", Desc: true})
}
