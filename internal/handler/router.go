package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "charatalk/internal/handler/chat"
	renderhandler "charatalk/internal/handler/render"
	settingshandler "charatalk/internal/handler/settings"
	streamhandler "charatalk/internal/handler/stream"
	middlewarePkg "charatalk/internal/middleware"
	"charatalk/internal/render"
	chatservice "charatalk/internal/service/chat"
	"charatalk/internal/service/conversation"
	"charatalk/internal/settings"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(store *conversation.Store, chatSvc *chatservice.Service, settingsStore settings.Store, hub *render.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chathandler.New(store, chatSvc)
	settingsHandler := settingshandler.New(settingsStore)
	streamHandler := streamhandler.New(store)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		settingsHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)

		if hub != nil {
			renderHandler := renderhandler.New(hub, store)
			renderHandler.RegisterRoutes(api)
		}
	})

	return r
}
