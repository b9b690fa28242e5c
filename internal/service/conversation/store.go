package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"charatalk/internal/model/chat"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrAwaitingResponse = errors.New("a response is still pending for this session")
)

// ChangeKind tags a change notification.
type ChangeKind string

const (
	ChangeMessage  ChangeKind = "message"
	ChangeAwaiting ChangeKind = "awaiting"
	ChangeAlert    ChangeKind = "alert"
)

// Change is one observable state transition. Observers receive changes in
// the order the store applied them.
type Change struct {
	SessionID string        `json:"sessionId"`
	Kind      ChangeKind    `json:"kind"`
	Message   *chat.Message `json:"message,omitempty"`
	Awaiting  bool          `json:"isAwaitingResponse"`
	Alert     string        `json:"alert,omitempty"`
}

// Store owns every conversation state. All mutation runs through the pure
// reducer under the store lock, so observers never see a torn view, and
// composite operations (BeginTurn, FoldAssistant, FoldFailure) land as one
// atomic transition.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	info  chat.Session
	state State
	// cancel aborts the in-flight completion request, if any.
	cancel      context.CancelFunc
	subscribers map[chan Change]bool
}

// NewStore bootstraps the in-memory conversation store. History lives only
// for the lifetime of the process; sessions are never persisted.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// CreateSession provisions an empty conversation.
func (s *Store) CreateSession(_ context.Context) (chat.Session, error) {
	info := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[info.ID] = &session{
		info:        info,
		state:       State{Messages: make([]chat.Message, 0, 16)},
		subscribers: make(map[chan Change]bool),
	}
	s.mu.Unlock()

	return info, nil
}

// DropSession discards a conversation, cancelling any in-flight request so
// its eventual outcome cannot write into discarded state. Subscriber
// channels are closed.
func (s *Store) DropSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	if sess.cancel != nil {
		sess.cancel()
	}
	for ch := range sess.subscribers {
		close(ch)
	}
	delete(s.sessions, sessionID)
	return nil
}

// GetSession retrieves session metadata.
func (s *Store) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return sess.info, nil
}

// Snapshot returns a copy of the current state, safe to hand to other
// goroutines.
func (s *Store) Snapshot(_ context.Context, sessionID string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return State{}, ErrSessionNotFound
	}
	return snapshotState(sess.state), nil
}

// AppendUser appends a user turn. While a response is outstanding the call
// is rejected, which keeps history ordering deterministic under rapid
// double submission even if the UI gate misses one.
func (s *Store) AppendUser(_ context.Context, sessionID, text string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}
	if sess.state.Awaiting {
		return chat.Message{}, ErrAwaitingResponse
	}

	message := newMessage(sessionID, chat.RoleUser, chat.Content{Message: text})
	s.applyEvents(sess, AppendMessage{Message: message})
	s.notify(sess, ChangeMessage, &message)
	return message, nil
}

// AppendAssistant appends a decoded assistant turn.
func (s *Store) AppendAssistant(_ context.Context, sessionID string, content chat.Content) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	message := newMessage(sessionID, chat.RoleAssistant, content)
	s.applyEvents(sess, AppendMessage{Message: message})
	s.notify(sess, ChangeMessage, &message)
	return message, nil
}

// SetAwaiting flips the outstanding-request flag.
func (s *Store) SetAwaiting(_ context.Context, sessionID string, awaiting bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.applyEvents(sess, SetAwaiting{Awaiting: awaiting})
	s.notify(sess, ChangeAwaiting, nil)
	return nil
}

// SetAlert surfaces a user-visible alert, displacing any active one.
func (s *Store) SetAlert(_ context.Context, sessionID, alert string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.applyEvents(sess, SetAlert{Alert: alert})
	s.notify(sess, ChangeAlert, nil)
	return nil
}

// ClearAlert empties the alert slot. Clearing an empty slot is a no-op and
// emits no change.
func (s *Store) ClearAlert(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.state.Alert == "" {
		return nil
	}
	s.applyEvents(sess, ClearAlert{})
	s.notify(sess, ChangeAlert, nil)
	return nil
}

// BeginTurn is the dispatcher's entry: in one atomic transition it rejects
// the turn if a request is already outstanding, appends the user message,
// raises the awaiting flag and records the request's cancel func. It
// returns the appended message plus a copy of the history as it stood
// BEFORE the append. That copy is the serialization snapshot, which a
// concurrent second turn can therefore never tear.
func (s *Store) BeginTurn(_ context.Context, sessionID, text string, cancel context.CancelFunc) (chat.Message, []chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return chat.Message{}, nil, ErrSessionNotFound
	}
	if sess.state.Awaiting {
		return chat.Message{}, nil, ErrAwaitingResponse
	}

	prior := make([]chat.Message, len(sess.state.Messages))
	copy(prior, sess.state.Messages)

	message := newMessage(sessionID, chat.RoleUser, chat.Content{Message: text})
	s.applyEvents(sess,
		AppendMessage{Message: message},
		SetAwaiting{Awaiting: true},
	)
	sess.cancel = cancel
	s.notify(sess, ChangeMessage, &message)

	return message, prior, nil
}

// FoldAssistant lands a successful outcome: assistant turn appended and the
// awaiting flag dropped as a single transition.
func (s *Store) FoldAssistant(_ context.Context, sessionID string, content chat.Content) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	message := newMessage(sessionID, chat.RoleAssistant, content)
	s.applyEvents(sess,
		AppendMessage{Message: message},
		SetAwaiting{Awaiting: false},
	)
	sess.cancel = nil
	s.notify(sess, ChangeMessage, &message)
	return message, nil
}

// FoldFailure lands a failed outcome: alert raised, awaiting flag dropped,
// history untouched. The already-appended user turn stays; the user's
// words are not rolled back on failure.
func (s *Store) FoldFailure(_ context.Context, sessionID, alert string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	s.applyEvents(sess,
		SetAlert{Alert: alert},
		SetAwaiting{Awaiting: false},
	)
	sess.cancel = nil
	s.notify(sess, ChangeAlert, nil)
	return nil
}

// Subscribe registers an observer for one conversation. The returned stop
// func must be called when the observer goes away; the channel also closes
// when the session is dropped. Slow observers miss changes rather than
// block the store.
func (s *Store) Subscribe(sessionID string) (<-chan Change, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}

	ch := make(chan Change, 16)
	sess.subscribers[ch] = true

	stop := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sess, ok := s.sessions[sessionID]; ok {
			if sess.subscribers[ch] {
				delete(sess.subscribers, ch)
				close(ch)
			}
		}
	}
	return ch, stop, nil
}

// applyEvents folds a batch of events through the reducer. The batch lands
// under one lock hold, so an operation built from several events is still a
// single transition to everyone outside. Caller holds the write lock.
func (s *Store) applyEvents(sess *session, events ...Event) {
	for _, event := range events {
		sess.state = reduce(sess.state, event)
	}
}

// notify emits one change reflecting the state after a completed
// operation. Caller holds the write lock.
func (s *Store) notify(sess *session, kind ChangeKind, message *chat.Message) {
	change := Change{
		SessionID: sess.info.ID,
		Kind:      kind,
		Message:   message,
		Awaiting:  sess.state.Awaiting,
		Alert:     sess.state.Alert,
	}

	for ch := range sess.subscribers {
		select {
		case ch <- change:
		default:
		}
	}
}

func newMessage(sessionID string, role chat.Role, content chat.Content) chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

func snapshotState(state State) State {
	messages := make([]chat.Message, len(state.Messages))
	copy(messages, state.Messages)
	state.Messages = messages
	return state
}
