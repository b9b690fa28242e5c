package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatservice "charatalk/internal/service/chat"
	"charatalk/internal/service/conversation"
	"charatalk/pkg/utils"
)

// Handler exposes the conversation core over HTTP: session lifecycle, the
// ask operation and alert acknowledgement.
type Handler struct {
	store   *conversation.Store
	chatSvc *chatservice.Service
}

// New creates the chat handler.
func New(store *conversation.Store, chatSvc *chatservice.Service) *Handler {
	return &Handler{store: store, chatSvc: chatSvc}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}", h.handleSnapshot)
	r.Delete("/session/{sessionID}", h.handleDropSession)
	r.Get("/session/{sessionID}/messages", h.handleTranscript)
	r.Post("/session/{sessionID}/ask", h.handleAsk)
	r.Post("/session/{sessionID}/alert/ack", h.handleAckAlert)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := h.store.Snapshot(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, state)
}

func (h *Handler) handleDropSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.store.DropSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := h.store.Snapshot(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, state.Messages)
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.chatSvc.Ask(r.Context(), sessionID, payload.Text)
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusOK, state)
	case errors.Is(err, chatservice.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "text is required")
	case errors.Is(err, conversation.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, conversation.ErrAwaitingResponse):
		utils.RespondError(w, http.StatusConflict, "a response is still pending")
	case errors.Is(err, chatservice.ErrMissingCredential), errors.Is(err, chatservice.ErrMissingPersona):
		// The alert is already in the state; hand it back with the refusal.
		utils.RespondJSON(w, http.StatusPreconditionFailed, state)
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) handleAckAlert(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.store.ClearAlert(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
