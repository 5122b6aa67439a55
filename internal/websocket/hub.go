package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PresenceListener receives connection lifecycle callbacks so presence can
// be persisted without the hub knowing about storage.
type PresenceListener interface {
	Connected(userId uuid.UUID, at time.Time)
	Seen(userId uuid.UUID, at time.Time)
	Disconnected(userId uuid.UUID)
}

// Hub tracks connected clients per user (multi-device) and fans messages
// out to them. With Redis configured it also relays messages across
// instances over the cluster_events channel.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb      *redis.Client
	presence PresenceListener
	logger   logger.ILogger
}

func NewHub(rdb *redis.Client, presence PresenceListener, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		presence:   presence,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			first := len(h.clients[client.UserID]) == 0
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			if first && h.presence != nil {
				h.presence.Connected(client.UserID, time.Now())
			}
			h.logger.Info("hub", "client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					if h.presence != nil {
						h.presence.Disconnected(client.UserID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func envelope(eventType string, data interface{}) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	return payload
}

// Send delivers a notification to every open connection of one user.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	h.pushLocal(userID, envelope("notification", notification))
	h.relay(userID.String(), envelope("notification", notification))
}

// Broadcast delivers a notification to every connected client.
func (h *Hub) Broadcast(notification model.Notification) {
	data := envelope("notification", notification)
	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			h.trySend(client, data)
		}
	}
	h.mu.RUnlock()
	h.relay("*", data)
}

// PushToUser delivers an arbitrary event to one user, used by the chat
// service for realtime message pushes.
func (h *Hub) PushToUser(userID uuid.UUID, event string, payload interface{}) {
	data := envelope(event, payload)
	h.pushLocal(userID, data)
	h.relay(userID.String(), data)
}

// PushToAdmins delivers an event to every connected admin.
func (h *Hub) PushToAdmins(event string, payload interface{}) {
	data := envelope(event, payload)
	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			if client.Role == "admin" {
				h.trySend(client, data)
			}
		}
	}
	h.mu.RUnlock()
	h.relay("admins", data)
}

func (h *Hub) pushLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for _, client := range clients {
		h.trySend(client, data)
	}
}

// trySend drops slow consumers instead of blocking the hub.
func (h *Hub) trySend(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("hub", "send buffer full, dropping client", map[string]interface{}{"user_id": client.UserID})
		go func() { h.unregister <- client }()
	}
}

type clusterMessage struct {
	Target  string          `json:"target"` // user uuid, "admins" or "*"
	Message json.RawMessage `json:"message"`
}

func (h *Hub) relay(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{Target: target, Message: data})
	if err := h.rdb.Publish(context.Background(), "cluster_events", payload).Err(); err != nil {
		h.logger.Warn("hub", "failed to relay to cluster", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("hub", "unparsable cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}

		switch payload.Target {
		case "*":
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					h.trySend(client, payload.Message)
				}
			}
			h.mu.RUnlock()
		case "admins":
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					if client.Role == "admin" {
						h.trySend(client, payload.Message)
					}
				}
			}
			h.mu.RUnlock()
		default:
			uid, err := uuid.Parse(payload.Target)
			if err != nil {
				continue
			}
			h.pushLocal(uid, payload.Message)
		}
	}
}

// markSeen is called from the client pong handler.
func (h *Hub) markSeen(userID uuid.UUID) {
	if h.presence != nil {
		h.presence.Seen(userID, time.Now())
	}
}
