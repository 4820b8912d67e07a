package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore persists the token in a file owned by the current user. The stored value has
// no expiry of its own; a JWT whose exp has passed is reported as absent.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

var _ Store = (*FileStore)(nil)

type storedToken struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// FileStoreOption configures a FileStore
type FileStoreOption func(*FileStore)

// WithClock sets the time source used for expiry checks (primarily for testing)
func WithClock(now func() time.Time) FileStoreOption {
	return func(s *FileStore) {
		s.now = now
	}
}

func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultFilePath returns <user config dir>/<app>/token
func DefaultFilePath(app string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("[tokenstore DefaultFilePath] %w", err)
	}
	return filepath.Join(dir, app, "token"), nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Set(token string, _ time.Duration) error {
	if token == "" {
		return ErrEmptyToken
	}
	data, err := json.Marshal(storedToken{Token: token, SavedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("[FileStore Set] marshal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("[FileStore Set] create token dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("[FileStore Set] write token: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("[FileStore Set] replace token: %w", err)
	}
	return nil
}

func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil || stored.Token == "" {
		return "", false
	}
	if Expired(stored.Token, s.now()) {
		return "", false
	}
	return stored.Token, true
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("[FileStore Clear] %w", err)
	}
	return nil
}
