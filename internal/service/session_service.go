package service

import (
	"context"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"
	"lingodocs-be/pkg/events"

	"github.com/google/uuid"
)

const (
	// inactivityThreshold is how long a user may go without logging in
	// before the sweep disables the account.
	inactivityThreshold = 7 * 24 * time.Hour

	sweepInterval = 1 * time.Hour
)

// ISessionService owns the only autonomous state change in the system: the
// hourly sweep that disables accounts unused for the threshold period. It
// also clears expired session rows on the same tick.
type ISessionService interface {
	StartSweeper(ctx context.Context)
	Sweep(ctx context.Context) (int, error)
}

type SessionService struct {
	uowFactory unitofwork.RepositoryFactory
	store      session.Store
	publisher  EventPublisher
	logger     logger.ILogger

	now func() time.Time
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	store session.Store,
	publisher EventPublisher,
	log logger.ILogger,
) *SessionService {
	return &SessionService{
		uowFactory: uowFactory,
		store:      store,
		publisher:  publisher,
		logger:     log,
		now:        time.Now,
	}
}

func (s *SessionService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil {
					s.logger.Error("session", "inactivity sweep failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()
}

// Sweep disables every active user whose last login predates the threshold,
// destroys their sessions, and leaves an audit row per account. It returns
// the number of accounts disabled. The sweep does not coordinate with
// concurrent admin edits; last write wins at the database level.
func (s *SessionService) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.Add(-inactivityThreshold)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	ids, err := userRepo.InactiveUserIdsSince(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	disabled := 0
	for _, userId := range ids {
		if err := userRepo.SetActive(ctx, userId, false); err != nil {
			s.logger.Error("session", "failed to disable inactive user", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
			continue
		}
		disabled++

		if err := s.store.DestroyByUser(ctx, userId); err != nil {
			s.logger.Warn("session", "failed to destroy sessions of disabled user", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}

		s.trackAutoDisable(ctx, uow, userId)

		if s.publisher != nil {
			_ = s.publisher.Publish(ctx, events.New(events.TypeUserDeactivated, map[string]interface{}{
				"user_id": userId.String(),
				"reason":  "inactivity",
			}))
		}
	}

	if removed, err := s.store.Cleanup(ctx, now); err == nil && removed > 0 {
		s.logger.Info("session", "removed expired sessions", map[string]interface{}{"count": removed})
	}

	if disabled > 0 {
		s.logger.Info("session", "inactivity sweep disabled accounts", map[string]interface{}{"count": disabled})
	}
	return disabled, nil
}

func (s *SessionService) trackAutoDisable(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) {
	row := &model.Activity{
		Id:          uuid.New(),
		UserId:      &userId,
		Type:        ActivityAutoDisable,
		Description: "Account disabled automatically after 7 days of inactivity",
	}
	if err := uow.ActivityRepository().Create(ctx, row); err != nil {
		s.logger.Error("session", "failed to write auto-disable activity", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}
