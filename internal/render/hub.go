package render

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is the wire form of a bridge notification. Type is "state" for mood
// switches and "talk" for utterances; Value carries the mood name or the
// raw emotion+message JSON respectively.
type Event struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

const (
	EventState = "state"
	EventTalk  = "talk"
)

// Hub fans bridge notifications out to every connected rendering client
// over WebSocket. It implements Bridge; writes are fire-and-forget and a
// failing connection is dropped rather than reported back to the core.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]bool

	// writeMu serializes frame writes; gorilla connections allow only one
	// concurrent writer.
	writeMu sync.Mutex
}

// NewHub returns a Hub with no connections.
func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

// Register adds a rendering client connection to the broadcast set.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
}

// Unregister removes a connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// CloseAll drops every connection, typically during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
	h.mu.Unlock()
}

// ConnectionCount reports the current broadcast set size.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// SetMood broadcasts a character state switch.
func (h *Hub) SetMood(mood string) {
	h.broadcast(Event{Type: EventState, Value: mood, Timestamp: time.Now().UnixMilli()})
}

// PerformUtterance broadcasts the raw utterance payload.
func (h *Hub) PerformUtterance(rawJSON string) {
	h.broadcast(Event{Type: EventTalk, Value: rawJSON, Timestamp: time.Now().UnixMilli()})
}

// Ping sends a keepalive control frame to one client.
func (h *Hub) Ping(conn *websocket.Conn) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
}

func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("[render] dropping client after write error: %v", err)
			h.Unregister(conn)
		}
	}
}
