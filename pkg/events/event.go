package events

import "time"

// Event codes published on the portal event bus.
const (
	TypeUserLogin             = "USER_LOGIN"
	TypeUserDeactivated       = "USER_DEACTIVATED"
	TypeTicketCreated         = "TICKET_CREATED"
	TypeAccountRequestCreated = "ACCOUNT_REQUEST_CREATED"
	TypeMessageSent           = "MESSAGE_SENT"
	TypeNotificationCreated   = "NOTIFICATION_CREATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TICKET_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds a BaseEvent stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = make(map[string]interface{})
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}
