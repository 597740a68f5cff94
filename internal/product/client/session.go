package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	userdto "github.com/tair/techstore/internal/user/dto"
)

// SessionData is the cached credential of the signed-in user
type SessionData struct {
	Token string              `json:"token"`
	User  *userdto.UserRecord `json:"user,omitempty"`
}

// Session persists the credential between CLI runs. An empty path keeps it
// in memory only.
type Session struct {
	mu   sync.Mutex
	path string
	data SessionData
}

// OpenSession loads the session file if it exists
func OpenSession(path string) (*Session, error) {
	s := &Session{path: path}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return s, nil
}

// Token returns the cached bearer token, or "" when signed out
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Token
}

// User returns the cached user, or nil when signed out
func (s *Session) User() *userdto.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.User == nil {
		return nil
	}
	u := *s.data.User
	return &u
}

// Save stores a new credential
func (s *Session) Save(token string, user userdto.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = SessionData{Token: token, User: &user}
	return s.persist()
}

// Clear drops the credential
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = SessionData{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// persist must be called with the lock held
func (s *Session) persist() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
