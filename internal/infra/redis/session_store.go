package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizmaster/internal/engine"
)

// SessionStore is a Redis-aware implementation of engine.SessionStore.
// Notes:
//   - Sessions stay in a local in-memory map; the timer goroutines and
//     subscriber channels are process-local by nature.
//   - Redis marks session liveness so operators can see active players
//     (and it could be extended to route cross-instance pub/sub).
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*engine.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*engine.Session),
	}
}

func (s *SessionStore) Put(userID string, session *engine.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(userID), "1", s.ttl).Err()
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
	_ = s.client.Del(context.Background(), s.key(userID)).Err()
}

func (s *SessionStore) key(userID string) string {
	return "quiz:session:" + userID
}
