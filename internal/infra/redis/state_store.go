package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"quizmaster/internal/domain"
)

// StateStore persists per-user settings and stats as JSON values:
//
//	SET quiz:settings:{userID} {json}
//	SET quiz:stats:{userID}    {json}
//
// Missing or malformed values are reported as absent so the engine
// falls back to its documented defaults.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{client: client, ttl: ttl}
}

func (s *StateStore) LoadSettings(ctx context.Context, userID string) (domain.QuizSettings, bool, error) {
	var settings domain.QuizSettings
	ok, err := s.load(ctx, settingsKey(userID), &settings)
	return settings, ok, err
}

func (s *StateStore) SaveSettings(ctx context.Context, userID string, settings domain.QuizSettings) error {
	return s.save(ctx, settingsKey(userID), settings)
}

func (s *StateStore) LoadStats(ctx context.Context, userID string) (domain.UserStats, bool, error) {
	var stats domain.UserStats
	ok, err := s.load(ctx, statsKey(userID), &stats)
	return stats, ok, err
}

func (s *StateStore) SaveStats(ctx context.Context, userID string, stats domain.UserStats) error {
	return s.save(ctx, statsKey(userID), stats)
}

func (s *StateStore) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if json.Unmarshal(raw, v) != nil {
		// Malformed data counts as absent; defaults apply.
		return false, nil
	}
	return true, nil
}

func (s *StateStore) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, s.ttl).Err()
}

func settingsKey(userID string) string { return "quiz:settings:" + userID }

func statsKey(userID string) string { return "quiz:stats:" + userID }
