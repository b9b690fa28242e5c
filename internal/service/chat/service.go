package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"charatalk/internal/analysis/emotion"
	"charatalk/internal/render"
	"charatalk/internal/service/ai"
	"charatalk/internal/service/conversation"
	"charatalk/internal/settings"
)

var (
	ErrEmptyMessage      = errors.New("message text is empty")
	ErrMissingCredential = errors.New("provider credential is not configured")
	ErrMissingPersona    = errors.New("character setting is not configured")
)

// Alerts surfaced to the user. Precondition alerts fire before any network
// activity; the rest classify a finished exchange.
const (
	alertMissingToken     = "Set your OpenAI token on the settings screen"
	alertMissingPersona   = "Enter a character setting before talking"
	alertMalformedContent = "Nested content decoding error"
	alertUndecodable      = "Could not decode the API response"
)

// Service drives one user turn end to end: precondition checks, optimistic
// user append, request serialization, the completion exchange, outcome
// classification and the fold back into conversation state. Exactly one
// terminal fold happens per accepted turn; failures surface as alerts and
// are never retried.
type Service struct {
	store    *conversation.Store
	settings settings.Store
	client   *ai.Client
	bridge   render.Bridge
}

// NewService wires the dispatcher. A nil bridge falls back to the no-op
// sink.
func NewService(store *conversation.Store, settingsStore settings.Store, client *ai.Client, bridge render.Bridge) *Service {
	if bridge == nil {
		bridge = render.NopBridge{}
	}
	return &Service{
		store:    store,
		settings: settingsStore,
		client:   client,
		bridge:   bridge,
	}
}

// Ask runs one user turn against the provider and returns the resulting
// state snapshot. Precondition failures come back as typed errors with the
// matching alert already raised; post-dispatch failures are folded into the
// state (alert set, user turn retained) and return a nil error. If the
// session is torn down while the request is in flight, the late outcome is
// discarded and no state is written.
func (s *Service) Ask(ctx context.Context, sessionID, text string) (conversation.State, error) {
	if strings.TrimSpace(text) == "" {
		return conversation.State{}, ErrEmptyMessage
	}

	token, ok := s.settings.Get(settings.KeyToken)
	if !ok {
		if err := s.store.SetAlert(ctx, sessionID, alertMissingToken); err != nil {
			return conversation.State{}, err
		}
		return s.snapshotAfter(ctx, sessionID, ErrMissingCredential)
	}

	personaText, ok := s.settings.Get(settings.KeyPersona)
	if !ok {
		if err := s.store.SetAlert(ctx, sessionID, alertMissingPersona); err != nil {
			return conversation.State{}, err
		}
		return s.snapshotAfter(ctx, sessionID, ErrMissingPersona)
	}

	// The request outlives the caller's context on purpose: only session
	// teardown (or the client timeout) cancels it, so every accepted turn
	// reaches exactly one terminal outcome.
	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, history, err := s.store.BeginTurn(ctx, sessionID, text, cancel)
	if err != nil {
		return conversation.State{}, err
	}

	personaPrompt := ai.BuildPersonaPrompt(personaText)
	serialized := ai.SerializeMessages(history, personaPrompt, text)

	raw, err := s.client.Send(reqCtx, serialized, token)
	if reqCtx.Err() != nil {
		// Torn down mid-flight; the store is gone or moving on without us.
		log.Printf("[chat] discarding cancelled response for session=%s", sessionID)
		return conversation.State{}, reqCtx.Err()
	}
	if err != nil {
		s.fold(ctx, sessionID, func() error {
			return s.store.FoldFailure(ctx, sessionID, fmt.Sprintf("API request error: %v", err))
		})
		return s.snapshotAfter(ctx, sessionID, nil)
	}

	outcome := ai.ParseCompletion(raw)

	// Once the outer envelope decoded as a completion, the rendering engine
	// receives the content best effort, before local inner decoding gets a
	// chance to fail.
	if outcome.Kind == ai.OutcomeMessage || outcome.Kind == ai.OutcomeMalformedContent {
		s.bridge.PerformUtterance(outcome.RawContent)
		s.bridge.SetMood(string(emotion.Neutral))
	}

	switch outcome.Kind {
	case ai.OutcomeProviderError:
		s.fold(ctx, sessionID, func() error {
			return s.store.FoldFailure(ctx, sessionID, fmt.Sprintf("API error: %s", outcome.ErrorMessage))
		})
	case ai.OutcomeMessage:
		s.fold(ctx, sessionID, func() error {
			_, err := s.store.FoldAssistant(ctx, sessionID, outcome.Content)
			return err
		})
	case ai.OutcomeMalformedContent:
		s.fold(ctx, sessionID, func() error {
			return s.store.FoldFailure(ctx, sessionID, alertMalformedContent)
		})
	default:
		s.fold(ctx, sessionID, func() error {
			return s.store.FoldFailure(ctx, sessionID, alertUndecodable)
		})
	}

	return s.snapshotAfter(ctx, sessionID, nil)
}

// fold applies a terminal outcome. A vanished session means the
// conversation was discarded while we were out; the outcome is dropped.
func (s *Service) fold(ctx context.Context, sessionID string, land func() error) {
	if err := land(); err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			log.Printf("[chat] session=%s discarded before outcome landed", sessionID)
			return
		}
		log.Printf("[chat] failed to fold outcome for session=%s: %v", sessionID, err)
	}
}

func (s *Service) snapshotAfter(ctx context.Context, sessionID string, retErr error) (conversation.State, error) {
	state, err := s.store.Snapshot(ctx, sessionID)
	if err != nil {
		return conversation.State{}, err
	}
	return state, retErr
}
