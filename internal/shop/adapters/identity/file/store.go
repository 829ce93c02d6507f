package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Store persists the two identity keys as a small JSON file, the client's
// analogue of browser local storage: state survives process restarts.
type Store struct {
	path  string
	mu    sync.Mutex
	state state
}

type state struct {
	Token   string `json:"token,omitempty"`
	GuestID string `json:"guest_id,omitempty"`
}

// NewStore loads any previously persisted state from path, tolerating a
// missing file.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read identity state: %w", err)
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("decode identity state: %w", err)
	}
	return s, nil
}

func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *Store) SetCredential(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	return s.save()
}

func (s *Store) ClearCredential() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Token == "" {
		return nil
	}
	s.state.Token = ""
	return s.save()
}

func (s *Store) AnonymousCartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GuestID
}

func (s *Store) EnsureAnonymousCartID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.GuestID != "" {
		return s.state.GuestID, nil
	}
	s.state.GuestID = uuid.NewString()
	if err := s.save(); err != nil {
		s.state.GuestID = ""
		return "", err
	}
	return s.state.GuestID, nil
}

func (s *Store) ConsumeAnonymousCartID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.GuestID
	if id == "" {
		return "", nil
	}
	s.state.GuestID = ""
	if err := s.save(); err != nil {
		s.state.GuestID = id
		return "", err
	}
	return id, nil
}

// save must be called with the lock held.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode identity state: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write identity state: %w", err)
	}
	return nil
}
