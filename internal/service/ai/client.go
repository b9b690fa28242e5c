package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"charatalk/internal/config"
	"charatalk/internal/model/provider"
	"charatalk/internal/render"
)

// Client performs the completion exchange with the provider. It issues
// exactly one attempt per call and never retries; failures surface to the
// user instead. The response body is returned raw regardless of HTTP
// status, because the provider reports some validation errors with a 200
// and the error-vs-success split is decided by envelope shape, not status.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	bridge     render.Bridge
}

// NewClient builds a Client for the configured endpoint. A nil bridge is
// replaced with the no-op sink.
func NewClient(cfg config.AIConfig, bridge render.Bridge) *Client {
	if bridge == nil {
		bridge = render.NopBridge{}
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		bridge:     bridge,
	}
}

// Send posts the serialized messages and returns the raw response payload.
// Before dispatch it flips the rendering bridge into the "thinking" mood;
// that notification is fire-and-forget and does not influence the result.
// Cancelling ctx aborts the exchange, and the caller is expected to treat
// a cancelled Send as a discarded request rather than a failure.
func (c *Client) Send(ctx context.Context, messages []provider.ChatMessage, token string) ([]byte, error) {
	body, err := json.Marshal(provider.ChatRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	c.bridge.SetMood("thinking")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading completion response: %w", err)
	}

	log.Printf("[ai] completion exchange done, status=%d, payload=%dB", resp.StatusCode, len(payload))
	return payload, nil
}
