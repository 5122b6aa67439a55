package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"lingodocs-be/internal/model"
	"lingodocs-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory SQLite database. Each test gets its
// own named database so parallel tests cannot see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.PasswordResetToken{},
		&model.Session{},
		&model.Activity{},
		&model.Program{},
		&model.Category{},
		&model.Document{},
		&model.Notification{},
		&model.UserNotification{},
		&model.NotificationType{},
		&model.AdminUserChat{},
		&model.AdminUserMessage{},
		&model.OnlineUser{},
		&model.ChatConversation{},
		&model.ChatMessage{},
		&model.KbCategory{},
		&model.KbFaq{},
		&model.TrainingFile{},
	))
	return db
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

// memPublisher records published events for assertions.
type memPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *memPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *memPublisher) byType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// stubMailer never dials anything; it records reset tokens handed to it.
type stubMailer struct {
	mu          sync.Mutex
	resetTokens map[string]string
}

func newStubMailer() *stubMailer {
	return &stubMailer{resetTokens: make(map[string]string)}
}

func (m *stubMailer) SendResetToken(toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[toEmail] = token
	return nil
}

func (m *stubMailer) SendTicketStatusUpdate(string, string, string) error   { return nil }
func (m *stubMailer) SendAccountRequestUpdate(string, string, string) error { return nil }

func (m *stubMailer) tokenFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetTokens[email]
}

// stubDelivery records realtime pushes without a websocket hub.
type stubDelivery struct {
	mu         sync.Mutex
	sent       map[uuid.UUID][]model.Notification
	broadcasts []model.Notification
}

func newStubDelivery() *stubDelivery {
	return &stubDelivery{sent: make(map[uuid.UUID][]model.Notification)}
}

func (d *stubDelivery) Send(userID uuid.UUID, n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[userID] = append(d.sent[userID], n)
}

func (d *stubDelivery) Broadcast(n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.broadcasts = append(d.broadcasts, n)
}
