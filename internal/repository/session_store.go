package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// SessionStore persists the single current session across restarts.
// Load never fails: a missing or malformed record reads as no session.
type SessionStore interface {
	Load(ctx context.Context) *domain.Session
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

// decodeSession parses a persisted record, returning nil for anything unusable.
func decodeSession(raw []byte) *domain.Session {
	if len(raw) == 0 {
		return nil
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil
	}
	if !session.Valid() {
		return nil
	}
	return &session
}

func encodeSession(session domain.Session) ([]byte, error) {
	return json.Marshal(session)
}

type fileSessionStore struct {
	mu   sync.Mutex
	path string
}

// NewFileSessionStore stores the session as <dir>/<key>.json.
func NewFileSessionStore(dir, key string) SessionStore {
	return &fileSessionStore{path: filepath.Join(dir, key+".json")}
}

func (s *fileSessionStore) Load(_ context.Context) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	return decodeSession(raw)
}

func (s *fileSessionStore) Save(_ context.Context, session domain.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (s *fileSessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

type memorySessionStore struct {
	mu  sync.Mutex
	raw []byte
}

// NewMemorySessionStore keeps the encoded record in process memory only.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{}
}

func (s *memorySessionStore) Load(_ context.Context) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeSession(s.raw)
}

func (s *memorySessionStore) Save(_ context.Context, session domain.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = data
	return nil
}

func (s *memorySessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = nil
	return nil
}
