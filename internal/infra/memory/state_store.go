package memory

import (
	"context"
	"encoding/json"
	"sync"

	"quizmaster/internal/domain"
)

// StateStore is an in-memory implementation of engine.StateStore. It
// round-trips values through JSON so it exercises the same
// serialization path as the Redis store.
type StateStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewStateStore() *StateStore {
	return &StateStore{values: make(map[string][]byte)}
}

func (s *StateStore) LoadSettings(_ context.Context, userID string) (domain.QuizSettings, bool, error) {
	var settings domain.QuizSettings
	ok := s.load(settingsKey(userID), &settings)
	return settings, ok, nil
}

func (s *StateStore) SaveSettings(_ context.Context, userID string, settings domain.QuizSettings) error {
	return s.save(settingsKey(userID), settings)
}

func (s *StateStore) LoadStats(_ context.Context, userID string) (domain.UserStats, bool, error) {
	var stats domain.UserStats
	ok := s.load(statsKey(userID), &stats)
	return stats, ok, nil
}

func (s *StateStore) SaveStats(_ context.Context, userID string, stats domain.UserStats) error {
	return s.save(statsKey(userID), stats)
}

func (s *StateStore) load(key string, v any) bool {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	// Malformed data counts as absent; defaults apply.
	return json.Unmarshal(raw, v) == nil
}

func (s *StateStore) save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}

// SetRaw stores an arbitrary payload under a user's stats key, for
// malformed-data tests.
func (s *StateStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
}

func settingsKey(userID string) string { return "quiz:settings:" + userID }

// StatsKey is exported so tests can seed malformed payloads.
func StatsKey(userID string) string { return statsKey(userID) }

func statsKey(userID string) string { return "quiz:stats:" + userID }
