package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"charatalk/internal/config"
	"charatalk/internal/handler"
	"charatalk/internal/render"
	"charatalk/internal/service/ai"
	chatservice "charatalk/internal/service/chat"
	"charatalk/internal/service/conversation"
	"charatalk/internal/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	settingsStore := settings.NewMemoryStore()
	if cfg.AI.APIKey != "" {
		settingsStore.Set(settings.KeyToken, cfg.AI.APIKey)
	} else {
		log.Println("OpenAI token not configured; set it via PUT /api/settings before talking")
	}
	if cfg.AI.PersonaText != "" {
		settingsStore.Set(settings.KeyPersona, cfg.AI.PersonaText)
	} else {
		log.Println("character setting not configured; set it via PUT /api/settings before talking")
	}

	hub := render.NewHub()
	defer hub.CloseAll()

	store := conversation.NewStore()
	client := ai.NewClient(cfg.AI, hub)
	chatSvc := chatservice.NewService(store, settingsStore, client, hub)

	router := handler.NewRouter(store, chatSvc, settingsStore, hub)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("charatalk backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
