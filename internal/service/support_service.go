package service

import (
	"context"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/pkg/mailer"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/pkg/events"

	"github.com/google/uuid"
)

type ISupportService interface {
	CreateTicket(ctx context.Context, userId uuid.UUID, req *dto.CreateTicketRequest) (*model.SupportTicket, error)
	ListTickets(ctx context.Context, userId *uuid.UUID) ([]*model.SupportTicket, error)
	GetTicket(ctx context.Context, id uuid.UUID, requester uuid.UUID, isAdmin bool) (*model.SupportTicket, []*model.SupportResponse, error)
	UpdateTicketStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateTicketStatusRequest) (*model.SupportTicket, error)
	RespondToTicket(ctx context.Context, ticketId, adminId uuid.UUID, req *dto.CreateTicketResponseRequest) (*model.SupportResponse, error)

	CreateAccountRequest(ctx context.Context, userId uuid.UUID, req *dto.CreateAccountRequestRequest, attachmentPath *string) (*model.AccountRequest, error)
	ListAccountRequests(ctx context.Context, userId *uuid.UUID) ([]*model.AccountRequest, error)
	ReviewAccountRequest(ctx context.Context, id uuid.UUID, req *dto.ReviewAccountRequestRequest) (*model.AccountRequest, error)
}

type supportService struct {
	uowFactory unitofwork.RepositoryFactory
	email      mailer.IEmailService
	publisher  EventPublisher
	logger     logger.ILogger
}

func NewSupportService(
	uowFactory unitofwork.RepositoryFactory,
	email mailer.IEmailService,
	publisher EventPublisher,
	log logger.ILogger,
) ISupportService {
	return &supportService{
		uowFactory: uowFactory,
		email:      email,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *supportService) CreateTicket(ctx context.Context, userId uuid.UUID, req *dto.CreateTicketRequest) (*model.SupportTicket, error) {
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	ticket := &model.SupportTicket{
		Id:       uuid.New(),
		UserId:   userId,
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   "open",
		Priority: priority,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SupportRepository().CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.New(events.TypeTicketCreated, map[string]interface{}{
			"user_id":   userId.String(),
			"ticket_id": ticket.Id.String(),
			"subject":   ticket.Subject,
		}))
	}
	return ticket, nil
}

func (s *supportService) ListTickets(ctx context.Context, userId *uuid.UUID) ([]*model.SupportTicket, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if userId != nil {
		specs = append(specs, specification.UserOwnedBy{UserID: *userId})
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SupportRepository().FindTickets(ctx, specs...)
}

func (s *supportService) GetTicket(ctx context.Context, id uuid.UUID, requester uuid.UUID, isAdmin bool) (*model.SupportTicket, []*model.SupportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SupportRepository()

	ticket, err := repo.FindTicket(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, nil, err
	}
	if ticket == nil {
		return nil, nil, apperr.NotFound("Ticket not found")
	}
	if !isAdmin && ticket.UserId != requester {
		return nil, nil, apperr.Forbidden("Not your ticket")
	}

	responses, err := repo.FindResponses(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ticket, responses, nil
}

// UpdateTicketStatus validates against the status enum only; any transition
// is allowed, including reopening a closed ticket.
func (s *supportService) UpdateTicketStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateTicketStatusRequest) (*model.SupportTicket, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SupportRepository()

	ticket, err := repo.FindTicket(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperr.NotFound("Ticket not found")
	}

	ticket.Status = req.Status
	if err := repo.UpdateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.notifyTicketOwner(ctx, uow, ticket)
	return ticket, nil
}

func (s *supportService) RespondToTicket(ctx context.Context, ticketId, adminId uuid.UUID, req *dto.CreateTicketResponseRequest) (*model.SupportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SupportRepository()

	ticket, err := repo.FindTicket(ctx, specification.ByID{ID: ticketId})
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperr.NotFound("Ticket not found")
	}

	response := &model.SupportResponse{
		Id:       uuid.New(),
		TicketId: ticketId,
		AdminId:  adminId,
		Message:  req.Message,
	}
	if err := repo.CreateResponse(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (s *supportService) notifyTicketOwner(ctx context.Context, uow unitofwork.UnitOfWork, ticket *model.SupportTicket) {
	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: ticket.UserId})
	if err != nil || owner == nil {
		return
	}
	go func() {
		if err := s.email.SendTicketStatusUpdate(owner.Email, ticket.Subject, ticket.Status); err != nil {
			s.logger.Error("support", "failed to send ticket status email", map[string]interface{}{"error": err.Error()})
		}
	}()
}

func (s *supportService) CreateAccountRequest(ctx context.Context, userId uuid.UUID, req *dto.CreateAccountRequestRequest, attachmentPath *string) (*model.AccountRequest, error) {
	request := &model.AccountRequest{
		Id:             uuid.New(),
		UserId:         userId,
		RequestType:    req.RequestType,
		Details:        req.Details,
		Status:         "pending",
		AttachmentPath: attachmentPath,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SupportRepository().CreateAccountRequest(ctx, request); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.New(events.TypeAccountRequestCreated, map[string]interface{}{
			"user_id":      userId.String(),
			"request_id":   request.Id.String(),
			"request_type": request.RequestType,
		}))
	}
	return request, nil
}

func (s *supportService) ListAccountRequests(ctx context.Context, userId *uuid.UUID) ([]*model.AccountRequest, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if userId != nil {
		specs = append(specs, specification.UserOwnedBy{UserID: *userId})
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SupportRepository().FindAccountRequests(ctx, specs...)
}

func (s *supportService) ReviewAccountRequest(ctx context.Context, id uuid.UUID, req *dto.ReviewAccountRequestRequest) (*model.AccountRequest, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SupportRepository()

	request, err := repo.FindAccountRequest(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("Account request not found")
	}

	request.Status = req.Status
	request.AdminNotes = req.AdminNotes
	if err := repo.UpdateAccountRequest(ctx, request); err != nil {
		return nil, err
	}

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: request.UserId})
	if err == nil && owner != nil {
		go func() {
			if err := s.email.SendAccountRequestUpdate(owner.Email, request.RequestType, request.Status); err != nil {
				s.logger.Error("support", "failed to send account request email", map[string]interface{}{"error": err.Error()})
			}
		}()
	}
	return request, nil
}
