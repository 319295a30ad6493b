// Package client is a Go client for the juliebook API. It holds the session
// token explicitly: the Session is constructed once, injected into the
// Client, and updated only through its methods; there is no package-level
// token state.
package client

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// TokenStore persists the session token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single file, the CLI equivalent of the
// browser's localStorage slot.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the stored token. A missing file means no session.
func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, readable by the owner only.
func (s *FileTokenStore) Save(token string) error {
	return os.WriteFile(s.path, []byte(token), 0600)
}

// Clear removes the stored token.
func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore is an in-process TokenStore for tests and ephemeral use.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Session holds at most one bearer token at a time.
type Session struct {
	mu    sync.Mutex
	token string
	store TokenStore
}

// NewSession creates a Session, restoring any token the store holds.
func NewSession(store TokenStore) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{token: token, store: store}, nil
}

// Token returns the current token, empty when logged out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// SetToken stores a freshly issued token.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Clear drops the token. Logout needs no server call: the token is stateless
// and simply expires.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.token = ""
	return nil
}
