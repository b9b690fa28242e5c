package render

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"charatalk/internal/render"
	"charatalk/internal/service/conversation"
)

// Handler upgrades rendering-engine clients onto the broadcast hub. The
// connection is one-way: the core pushes state and talk events, and
// anything the client sends (beyond pongs) is discarded.
type Handler struct {
	hub      *render.Hub
	store    *conversation.Store
	upgrader websocket.Upgrader
}

// New creates the render WebSocket handler.
func New(hub *render.Hub, store *conversation.Store) *Handler {
	return &Handler{
		hub:   hub,
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the render WebSocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/render/{sessionID}", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[render] upgrade failed: %v", err)
		return
	}

	log.Printf("[render] new rendering client for session: %s", sessionID)

	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	// Drain the connection so control frames keep flowing; inbound data
	// frames have no meaning to the core.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[render] read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.hub.Ping(conn); err != nil {
				return
			}
		}
	}
}
