package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizmaster/internal/domain"
)

// BankLoader fetches the question bank from a backing store (e.g., Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.Question, error)
}

// BankRepository caches the question bank with TTL to avoid repeated DB hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache *cachedBank
}

type cachedBank struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if r.cache != nil && r.cache.expiresAt.After(now) {
		questions := r.cache.questions
		r.mu.RUnlock()
		return questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cache != nil && r.cache.expiresAt.After(now) {
			questions := r.cache.questions
			r.mu.RUnlock()
			return questions, nil
		}
		r.mu.RUnlock()

		questions, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache = &cachedBank{
			questions: questions,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves a fixed question slice (useful for tests/demos).
type StaticBankLoader struct {
	questions []domain.Question
}

func NewStaticBankLoader(questions []domain.Question) *StaticBankLoader {
	return &StaticBankLoader{questions: questions}
}

func (l *StaticBankLoader) LoadBank(context.Context) ([]domain.Question, error) {
	if len(l.questions) == 0 {
		return nil, domain.ErrBankNotFound
	}
	return l.questions, nil
}
