package dto

type CreateTicketRequest struct {
	Subject  string `json:"subject" validate:"required,max=500"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type UpdateTicketStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

type CreateTicketResponseRequest struct {
	Message string `json:"message" validate:"required"`
}

type CreateAccountRequestRequest struct {
	RequestType string `json:"request_type" validate:"required,oneof=new_account un_tag_account"`
	Details     string `json:"details"`
}

type ReviewAccountRequestRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending approved rejected"`
	AdminNotes *string `json:"admin_notes"`
}
