package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a change notification or an editor reply.
type Message struct {
	Type       string `json:"type"`
	Entity     string `json:"entity,omitempty"`
	Action     string `json:"action,omitempty"`
	BusinessID int64  `json:"business_id,omitempty"`
	Menu       string `json:"menu,omitempty"`
	ID         string `json:"id,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(businessID int64, entity, action, id string) Message {
	return Message{
		Type:       fmt.Sprintf("%s_%s", entity, action),
		Entity:     entity,
		Action:     action,
		BusinessID: businessID,
		ID:         id,
	}
}

// WithMenu returns a copy of m scoped to a menu.
func (m Message) WithMenu(menu string) Message {
	m.Menu = menu
	return m
}

// WithData returns a copy of m carrying data.
func (m Message) WithData(data any) Message {
	m.Data = data
	return m
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends msg to every client subscribed to msg.BusinessID. Clients
// with no business filter receive everything.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.businessID != 0 && msg.BusinessID != 0 && c.businessID != msg.BusinessID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// buffer full, drop
		}
	}
}

// SendTo queues msg for a single client. It reports false when the client
// is gone or its buffer is full.
func (h *Hub) SendTo(c *Client, msg Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal message", "type", msg.Type, "error", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
