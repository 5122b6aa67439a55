package implementation

import (
	"context"
	"errors"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/contract"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupportRepositoryImpl struct {
	db *gorm.DB
}

func NewSupportRepository(db *gorm.DB) contract.SupportRepository {
	return &SupportRepositoryImpl{db: db}
}

func (r *SupportRepositoryImpl) CreateTicket(ctx context.Context, ticket *model.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *SupportRepositoryImpl) UpdateTicket(ctx context.Context, ticket *model.SupportTicket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *SupportRepositoryImpl) FindTicket(ctx context.Context, specs ...specification.Specification) (*model.SupportTicket, error) {
	var row model.SupportTicket
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *SupportRepositoryImpl) FindTickets(ctx context.Context, specs ...specification.Specification) ([]*model.SupportTicket, error) {
	var rows []*model.SupportTicket
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SupportRepositoryImpl) CountTickets(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.SupportTicket{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SupportRepositoryImpl) CreateResponse(ctx context.Context, response *model.SupportResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *SupportRepositoryImpl) FindResponses(ctx context.Context, ticketId uuid.UUID) ([]*model.SupportResponse, error) {
	var rows []*model.SupportResponse
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketId).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *SupportRepositoryImpl) CreateAccountRequest(ctx context.Context, request *model.AccountRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *SupportRepositoryImpl) UpdateAccountRequest(ctx context.Context, request *model.AccountRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *SupportRepositoryImpl) FindAccountRequest(ctx context.Context, specs ...specification.Specification) (*model.AccountRequest, error) {
	var row model.AccountRequest
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *SupportRepositoryImpl) FindAccountRequests(ctx context.Context, specs ...specification.Specification) ([]*model.AccountRequest, error) {
	var rows []*model.AccountRequest
	query := applySpecs(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SupportRepositoryImpl) CountAccountRequests(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.AccountRequest{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
