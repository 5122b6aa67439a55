package model

import (
	"time"

	"github.com/google/uuid"
)

// SupportTicket status is validated against the enum only; any transition is
// permitted (closed tickets can be reopened).
type SupportTicket struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Subject   string    `gorm:"type:varchar(500);not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"type:varchar(50);not null;default:'open'" json:"status"`
	Priority  string    `gorm:"type:varchar(50);not null;default:'medium'" json:"priority"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

// SupportResponse is an append-only admin reply.
type SupportResponse struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TicketId  uuid.UUID      `gorm:"type:uuid;not null;index" json:"ticket_id"`
	Ticket    *SupportTicket `gorm:"foreignKey:TicketId;constraint:OnDelete:CASCADE" json:"-"`
	AdminId   uuid.UUID      `gorm:"type:uuid;not null" json:"admin_id"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SupportResponse) TableName() string {
	return "support_responses"
}

type AccountRequest struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RequestType    string    `gorm:"type:varchar(50);not null" json:"request_type"` // new_account | un_tag_account
	Details        string    `gorm:"type:text" json:"details"`
	Status         string    `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	AdminNotes     *string   `gorm:"type:text" json:"admin_notes,omitempty"`
	AttachmentPath *string   `gorm:"type:text" json:"attachment_path,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AccountRequest) TableName() string {
	return "account_requests"
}
