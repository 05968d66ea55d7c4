package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizmaster/internal/domain"
)

// BankLoader fetches the question bank from a backing store (e.g., Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.Question, error)
}

const bankKey = "quiz:bank"

// BankRepository caches the question bank as a JSON blob in Redis and
// falls back to the loader on cache miss.
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := r.fromCache(ctx); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.fromCache(ctx); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		// best-effort cache fill
		_ = r.client.Set(ctx, bankKey, raw, r.ttlWithJitter()).Err()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *BankRepository) fromCache(ctx context.Context) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, bankKey).Bytes()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
