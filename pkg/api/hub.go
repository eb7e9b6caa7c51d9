package api

import (
	"sync"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/wallpaper"
	"github.com/dixieflatline76/jukebox/util/log"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// client is one websocket connection. gorilla/websocket allows a single
// concurrent writer, so writes go through mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// Hub tracks the websocket clients of every session.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*client]struct{})}
}

func (h *Hub) add(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[sessionID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[sessionID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) remove(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[sessionID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, sessionID)
	}
}

// Count returns the number of clients attached to sessionID.
func (h *Hub) Count(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

// Broadcast sends ev to every client of sessionID. Clients that fail to
// receive are closed and dropped.
func (h *Hub) Broadcast(sessionID string, ev wallpaper.Event) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients[sessionID]))
	for c := range h.clients[sessionID] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.send(ev); err != nil {
			log.Printf("[API] Failed to push %s to client of session %s: %v", ev.Type, sessionID, err)
			c.conn.Close()
			h.remove(sessionID, c)
		}
	}
}

// CloseSession disconnects every client of sessionID.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	set := h.clients[sessionID]
	delete(h.clients, sessionID)
	h.mu.Unlock()

	for c := range set {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		c.conn.Close()
	}
}
