package memory

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps identity state in memory, useful for tests and ephemeral
// sessions that should not touch disk.
type Store struct {
	mu      sync.Mutex
	token   string
	guestID string
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) SetCredential(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *Store) ClearCredential() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *Store) AnonymousCartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guestID
}

func (s *Store) EnsureAnonymousCartID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guestID == "" {
		s.guestID = uuid.NewString()
	}
	return s.guestID, nil
}

func (s *Store) ConsumeAnonymousCartID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.guestID
	s.guestID = ""
	return id, nil
}
