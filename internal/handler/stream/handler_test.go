package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"charatalk/internal/service/conversation"
)

func TestStreamUnknownSession(t *testing.T) {
	store := conversation.NewStore()
	handler := New(store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/stream/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestStreamEmitsBufferedChanges(t *testing.T) {
	store := conversation.NewStore()
	handler := New(store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	ctx := context.Background()
	session, err := store.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	// Cancel after the handler drains whatever is buffered.
	reqCtx, cancel := context.WithCancel(ctx)
	go func() {
		if _, err := store.AppendUser(ctx, session.ID, "hi"); err != nil {
			t.Errorf("AppendUser err: %v", err)
		}
		cancel()
	}()

	req := httptest.NewRequest(http.MethodGet, "/stream/"+session.ID, nil).WithContext(reqCtx)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	body := resp.Body.String()
	if !strings.Contains(body, "stream established") {
		t.Fatalf("missing status event: %s", body)
	}
	if resp.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type: %s", resp.Header().Get("Content-Type"))
	}
}
