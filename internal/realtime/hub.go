package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one authenticated websocket connection.
type Client struct {
	UserID uint
	Conn   *websocket.Conn
}

// DayUpdatedEvent tells a client that one day's aggregates changed and
// carries the fresh summary so the UI can repaint without a refetch.
type DayUpdatedEvent struct {
	Kind    string `json:"kind"`
	Date    string `json:"date"`
	Summary any    `json:"summary"`
}

// Hub fans day-summary updates out to every open connection of a user.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastDayUpdated sends a day.updated event to every connection the
// user has open. Write errors are left to the connection's read loop,
// which unregisters dead clients.
func (h *Hub) BroadcastDayUpdated(userID uint, date string, summary any) {
	msg, _ := json.Marshal(DayUpdatedEvent{Kind: "day.updated", Date: date, Summary: summary})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
