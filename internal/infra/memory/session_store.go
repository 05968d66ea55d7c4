package memory

import (
	"sync"

	"quizmaster/internal/engine"
)

// SessionStore is an in-memory implementation of engine.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*engine.Session),
	}
}

func (s *SessionStore) Put(userID string, session *engine.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}

func (s *SessionStore) Get(userID string) (*engine.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

func (s *SessionStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
