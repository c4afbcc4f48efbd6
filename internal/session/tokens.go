package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Tokens is the persisted credential state: the access/refresh token pair
// plus the email address awaiting OTP verification, which must survive a
// restart so the verify flow can resume.
type Tokens struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	PendingEmail string `json:"pending_email,omitempty"`
}

// TokenStore persists credential state across restarts.
type TokenStore interface {
	// Load returns the current state. A store with no saved state returns
	// zero Tokens and no error.
	Load() (Tokens, error)

	// SetTokens stores a token pair, preserving any pending email.
	SetTokens(access, refresh string) error

	// SetPendingEmail stores the address awaiting OTP verification.
	SetPendingEmail(email string) error

	// ClearTokens removes the token pair, preserving any pending email.
	ClearTokens() error

	// ClearPendingEmail removes the pending verification address.
	ClearPendingEmail() error
}

// FileTokenStore is a TokenStore backed by a JSON file. Writes go through
// a temp file and rename so a crash mid-write never truncates the state.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

var _ TokenStore = (*FileTokenStore)(nil)

// NewFileTokenStore creates a file-backed store at path. The parent
// directory is created if missing.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token store directory: %w", err)
	}
	return &FileTokenStore{path: path}, nil
}

// Load implements TokenStore.
func (s *FileTokenStore) Load() (Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileTokenStore) load() (Tokens, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Tokens{}, nil
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("failed to read token store: %w", err)
	}

	var t Tokens
	if err := json.Unmarshal(data, &t); err != nil {
		return Tokens{}, fmt.Errorf("failed to parse token store: %w", err)
	}
	return t, nil
}

func (s *FileTokenStore) save(t Tokens) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace token store: %w", err)
	}
	return nil
}

func (s *FileTokenStore) update(mutate func(*Tokens)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load()
	if err != nil {
		return err
	}
	mutate(&t)
	return s.save(t)
}

// SetTokens implements TokenStore.
func (s *FileTokenStore) SetTokens(access, refresh string) error {
	return s.update(func(t *Tokens) {
		t.AccessToken = access
		t.RefreshToken = refresh
	})
}

// SetPendingEmail implements TokenStore.
func (s *FileTokenStore) SetPendingEmail(email string) error {
	return s.update(func(t *Tokens) {
		t.PendingEmail = email
	})
}

// ClearTokens implements TokenStore.
func (s *FileTokenStore) ClearTokens() error {
	return s.update(func(t *Tokens) {
		t.AccessToken = ""
		t.RefreshToken = ""
	})
}

// ClearPendingEmail implements TokenStore.
func (s *FileTokenStore) ClearPendingEmail() error {
	return s.update(func(t *Tokens) {
		t.PendingEmail = ""
	})
}

// MemoryTokenStore is an in-memory TokenStore for tests.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens Tokens
}

var _ TokenStore = (*MemoryTokenStore)(nil)

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Load implements TokenStore.
func (s *MemoryTokenStore) Load() (Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens, nil
}

// SetTokens implements TokenStore.
func (s *MemoryTokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.AccessToken = access
	s.tokens.RefreshToken = refresh
	return nil
}

// SetPendingEmail implements TokenStore.
func (s *MemoryTokenStore) SetPendingEmail(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.PendingEmail = email
	return nil
}

// ClearTokens implements TokenStore.
func (s *MemoryTokenStore) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.AccessToken = ""
	s.tokens.RefreshToken = ""
	return nil
}

// ClearPendingEmail implements TokenStore.
func (s *MemoryTokenStore) ClearPendingEmail() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.PendingEmail = ""
	return nil
}
