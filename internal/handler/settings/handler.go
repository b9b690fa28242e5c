package settings

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"charatalk/internal/settings"
	"charatalk/pkg/utils"
)

// Handler exposes the two named settings the talk core depends on: the
// provider bearer token and the character setting text.
type Handler struct {
	store settings.Store
}

// New creates the settings handler.
func New(store settings.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the settings endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.Put("/settings", h.handlePut)
}

type settingsPayload struct {
	Token            string `json:"token"`
	CharacterSetting string `json:"characterSetting"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	token, _ := h.store.Get(settings.KeyToken)
	persona, _ := h.store.Get(settings.KeyPersona)

	utils.RespondJSON(w, http.StatusOK, settingsPayload{
		Token:            token,
		CharacterSetting: persona,
	})
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token := strings.TrimSpace(payload.Token)
	persona := strings.TrimSpace(payload.CharacterSetting)

	if token == "" {
		utils.RespondError(w, http.StatusBadRequest, "enter your OpenAI token")
		return
	}
	if persona == "" {
		utils.RespondError(w, http.StatusBadRequest, "enter a character setting")
		return
	}

	h.store.Set(settings.KeyToken, token)
	h.store.Set(settings.KeyPersona, persona)

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
