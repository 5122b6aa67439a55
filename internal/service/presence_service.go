package service

import (
	"context"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// presenceService persists websocket connection state into the
// online_users table. Rows are informational only; delivery never depends
// on them.
type presenceService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewPresenceService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *presenceService {
	return &presenceService{uowFactory: uowFactory, logger: log}
}

func (s *presenceService) Connected(userId uuid.UUID, at time.Time) {
	ctx := context.Background()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	row := &model.OnlineUser{
		UserId:      userId,
		ConnectedAt: at,
		LastSeenAt:  at,
	}
	if err := uow.AdminChatRepository().UpsertOnline(ctx, row); err != nil {
		s.logger.Warn("presence", "failed to record connection", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *presenceService) Seen(userId uuid.UUID, at time.Time) {
	ctx := context.Background()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AdminChatRepository().TouchOnline(ctx, userId, at); err != nil {
		s.logger.Warn("presence", "failed to touch presence", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *presenceService) Disconnected(userId uuid.UUID) {
	ctx := context.Background()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AdminChatRepository().DeleteOnline(ctx, userId); err != nil {
		s.logger.Warn("presence", "failed to clear presence", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}
