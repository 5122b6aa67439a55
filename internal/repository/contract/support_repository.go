package contract

import (
	"context"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SupportRepository interface {
	CreateTicket(ctx context.Context, ticket *model.SupportTicket) error
	UpdateTicket(ctx context.Context, ticket *model.SupportTicket) error
	FindTicket(ctx context.Context, specs ...specification.Specification) (*model.SupportTicket, error)
	FindTickets(ctx context.Context, specs ...specification.Specification) ([]*model.SupportTicket, error)
	CountTickets(ctx context.Context, specs ...specification.Specification) (int64, error)

	CreateResponse(ctx context.Context, response *model.SupportResponse) error
	FindResponses(ctx context.Context, ticketId uuid.UUID) ([]*model.SupportResponse, error)

	CreateAccountRequest(ctx context.Context, request *model.AccountRequest) error
	UpdateAccountRequest(ctx context.Context, request *model.AccountRequest) error
	FindAccountRequest(ctx context.Context, specs ...specification.Specification) (*model.AccountRequest, error)
	FindAccountRequests(ctx context.Context, specs ...specification.Specification) ([]*model.AccountRequest, error)
	CountAccountRequests(ctx context.Context, specs ...specification.Specification) (int64, error)
}
