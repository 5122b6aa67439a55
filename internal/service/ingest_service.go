package service

import (
	"context"
	"encoding/json"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/pkg/embedding"
	"lingodocs-be/pkg/textutil"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	// chunkSize keeps each article comfortably inside the embedding model's
	// context window; overlap preserves continuity across cuts.
	chunkSize    = 1500
	chunkOverlap = 200
)

// IIngestService consumes training file uploads and turns them into
// searchable knowledge base articles.
type IIngestService interface {
	Consume(ctx context.Context) error
}

type ingestService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	provider   embedding.Provider
	logger     logger.ILogger
}

func NewIngestService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	provider embedding.Provider,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		provider:   provider,
		logger:     log,
	}
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EmbedTrainingFileMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("ingest", "invalid message payload", map[string]interface{}{"error": err.Error()})
		msg.Ack() // poison message, retrying cannot fix it
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AssistantRepository()

	file, err := repo.FindTrainingFile(ctx, specification.ByID{ID: payload.FileId})
	if err != nil {
		s.logger.Error("ingest", "failed to load training file", map[string]interface{}{
			"file_id": payload.FileId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if file == nil {
		// Deleted between upload and processing.
		msg.Ack()
		return
	}

	if err := repo.UpdateTrainingFileStatus(ctx, file.Id, "processing"); err != nil {
		s.logger.Error("ingest", "failed to mark file processing", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	chunks := textutil.SplitText(file.Content, chunkSize, chunkOverlap)
	s.logger.Info("ingest", "processing training file", map[string]interface{}{
		"file_id": file.Id.String(),
		"chunks":  len(chunks),
	})

	var articles []*model.KbArticle
	for i, chunk := range chunks {
		vector, err := s.provider.Generate(chunk)
		if err != nil {
			s.logger.Error("ingest", "embedding generation failed", map[string]interface{}{
				"file_id": file.Id.String(),
				"chunk":   i,
				"error":   err.Error(),
			})
			s.markFailed(ctx, repo, file.Id)
			msg.Nack()
			return
		}
		sourceId := file.Id
		articles = append(articles, &model.KbArticle{
			Id:           uuid.New(),
			Title:        file.FileName,
			Content:      chunk,
			Embedding:    pgvector.NewVector(vector),
			SourceFileId: &sourceId,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		s.logger.Error("ingest", "failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	txRepo := uow.AssistantRepository()
	for _, article := range articles {
		if err := txRepo.CreateArticle(ctx, article); err != nil {
			s.logger.Error("ingest", "failed to store article chunk", map[string]interface{}{
				"file_id": file.Id.String(),
				"error":   err.Error(),
			})
			msg.Nack()
			return
		}
	}
	if err := txRepo.UpdateTrainingFileStatus(ctx, file.Id, "completed"); err != nil {
		s.logger.Error("ingest", "failed to mark file completed", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		s.logger.Error("ingest", "failed to commit ingest transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	s.logger.Info("ingest", "training file processed", map[string]interface{}{
		"file_id":  file.Id.String(),
		"articles": len(articles),
	})
	msg.Ack()
}

func (s *ingestService) markFailed(ctx context.Context, repo interface {
	UpdateTrainingFileStatus(ctx context.Context, id uuid.UUID, status string) error
}, fileId uuid.UUID) {
	if err := repo.UpdateTrainingFileStatus(ctx, fileId, "failed"); err != nil {
		s.logger.Error("ingest", "failed to mark file failed", map[string]interface{}{
			"file_id": fileId.String(),
			"error":   err.Error(),
		})
	}
}
