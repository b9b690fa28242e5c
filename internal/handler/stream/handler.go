package stream

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"charatalk/internal/analysis/emotion"
	"charatalk/internal/model/chat"
	"charatalk/internal/service/conversation"
	"charatalk/pkg/utils"
)

// Handler streams conversation state changes to the view layer over
// Server-Sent Events. Each store mutation becomes one event, in the order
// the store applied it; assistant turns additionally carry a derived mood
// so the view can style the bubble without decoding intensities itself.
type Handler struct {
	store *conversation.Store
}

// New creates the stream handler.
func New(store *conversation.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the SSE endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

type moodEvent struct {
	SessionID string       `json:"sessionId"`
	Mood      emotion.Mood `json:"mood"`
	Emotion   chat.Emotion `json:"emotion"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	changes, stop, err := h.store.Subscribe(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	defer stop()

	utils.SetupSSEHeaders(w)

	log.Printf("[stream] opening state stream for session=%s", sessionID)
	utils.SendSSEEvent(w, flusher, "status", map[string]string{
		"sessionId": sessionID,
		"message":   "stream established",
	})

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[stream] closing state stream for session=%s", sessionID)
			return
		case change, ok := <-changes:
			if !ok {
				// Session dropped; tell the view layer and finish.
				utils.SendSSEEvent(w, flusher, "end", map[string]string{
					"sessionId": sessionID,
				})
				return
			}

			utils.SendSSEEvent(w, flusher, string(change.Kind), change)

			if change.Kind == conversation.ChangeMessage &&
				change.Message != nil && change.Message.Role == chat.RoleAssistant {
				utils.SendSSEEvent(w, flusher, "mood", moodEvent{
					SessionID: sessionID,
					Mood:      emotion.Dominant(change.Message.Content.Emotion),
					Emotion:   change.Message.Content.Emotion,
				})
			}
		}
	}
}
