package service

import (
	"context"
	"encoding/json"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity type codes.
const (
	ActivityLogin         = "login"
	ActivityLogout        = "logout"
	ActivityDocumentClick = "document_click"
	ActivityAdminAction   = "admin_action"
	ActivityAutoDisable   = "auto_disable"
	ActivityCustom        = "custom"
)

type IActivityService interface {
	Track(ctx context.Context, userId *uuid.UUID, actType, description string, metadata map[string]interface{}, ip, userAgent string)
	List(ctx context.Context, userId *uuid.UUID, actType string, limit, offset int) ([]*model.Activity, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IActivityService {
	return &activityService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// Track appends an audit row. It never fails the caller: an audit write
// problem is logged and swallowed so it cannot break the tracked action.
func (s *activityService) Track(ctx context.Context, userId *uuid.UUID, actType, description string, metadata map[string]interface{}, ip, userAgent string) {
	row := &model.Activity{
		Id:          uuid.New(),
		UserId:      userId,
		Type:        actType,
		Description: description,
		IpAddress:   ip,
		UserAgent:   userAgent,
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			row.Metadata = datatypes.JSON(raw)
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ActivityRepository().Create(ctx, row); err != nil {
		s.logger.Error("activity", "failed to write activity row", map[string]interface{}{
			"type":  actType,
			"error": err.Error(),
		})
	}
}

func (s *activityService) List(ctx context.Context, userId *uuid.UUID, actType string, limit, offset int) ([]*model.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if userId != nil {
		specs = append(specs, specification.UserOwnedBy{UserID: *userId})
	}
	if actType != "" {
		specs = append(specs, specification.Filter("type", actType))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ActivityRepository().FindAll(ctx, specs...)
}
