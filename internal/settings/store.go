package settings

import "sync"

// Fixed identifiers for the two values the talk core reads before issuing
// a request. Both must be non-empty or the request is refused up front.
const (
	KeyToken   = "chatGPTToken"
	KeyPersona = "characterSetting"
)

// Store exposes named setting values to the core and to HTTP handlers.
// The core only reads; the settings surface writes.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStore implements Store with a mutex-guarded map. Settings are not
// persisted across restarts; they are seeded from the environment and may
// be replaced at runtime through the settings endpoint.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key and whether a non-empty value is set.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
