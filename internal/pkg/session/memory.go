package session

import (
	"context"
	"sync"

	"github.com/armadatrack/armada/internal/domain"
)

// memoryStore keeps sessions in process memory. Used in tests and in
// single-node deployments that run without Redis.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.User
}

// NewMemoryStore creates an in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]domain.User)}
}

func (s *memoryStore) Create(_ context.Context, user domain.User) (*Session, error) {
	sess := &Session{Token: NewToken(), User: user}

	s.mu.Lock()
	s.sessions[sess.Token] = user
	s.mu.Unlock()

	return sess, nil
}

func (s *memoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	user, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return &Session{Token: token, User: user}, nil
}

func (s *memoryStore) Refresh(_ context.Context, token string, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	s.sessions[token] = user
	return nil
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
