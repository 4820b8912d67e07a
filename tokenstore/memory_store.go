package tokenstore

import (
	"sync"
	"time"
)

// MemoryStore keeps the token for the lifetime of the process
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Set(token string, _ time.Duration) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || Expired(s.token, s.now()) {
		return "", false
	}
	return s.token, true
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
