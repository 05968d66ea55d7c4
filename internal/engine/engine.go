package engine

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"quizmaster/internal/achievements"
	"quizmaster/internal/domain"
	"quizmaster/internal/stats"
)

// SessionStore abstracts how live sessions are tracked (in-memory, Redis-marked, etc).
type SessionStore interface {
	Put(userID string, session *Session)
	Get(userID string) (*Session, bool)
	Delete(userID string)
}

// BankRepository loads the question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) ([]domain.Question, error)
}

// StateStore is the persistence capability: per-user settings and stats
// as JSON values. A miss reports ok=false; malformed data is treated as
// a miss by implementations, never an engine-visible failure.
type StateStore interface {
	LoadSettings(ctx context.Context, userID string) (domain.QuizSettings, bool, error)
	SaveSettings(ctx context.Context, userID string, settings domain.QuizSettings) error
	LoadStats(ctx context.Context, userID string) (domain.UserStats, bool, error)
	SaveStats(ctx context.Context, userID string, stats domain.UserStats) error
}

// Engine owns the quiz use cases: session lifecycle, power-ups, and
// finalization into persisted stats and achievements.
type Engine struct {
	sessions  SessionStore
	bank      BankRepository
	state     StateStore
	timing    Timing
	scheduler Scheduler
	clock     func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option customizes an Engine, mainly for tests.
type Option func(*Engine)

// WithClock injects a deterministic time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.clock = now }
}

// WithScheduler injects a timer scheduler (ManualScheduler in tests).
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithRand injects a seeded random source for reproducible shuffles.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithTiming overrides the countdown constants.
func WithTiming(t Timing) Option {
	return func(e *Engine) { e.timing = t }
}

func New(sessions SessionStore, bank BankRepository, state StateStore, opts ...Option) *Engine {
	e := &Engine{
		sessions:  sessions,
		bank:      bank,
		state:     state,
		timing:    DefaultTiming(),
		scheduler: NewWallScheduler(),
		clock:     time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categories lists the distinct categories present in the question bank.
func (e *Engine) Categories(ctx context.Context) ([]string, error) {
	bank, err := e.bank.GetBank(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var categories []string
	for _, q := range bank {
		if _, ok := seen[q.Category]; !ok {
			seen[q.Category] = struct{}{}
			categories = append(categories, q.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Settings returns the user's persisted settings, falling back to
// defaults when nothing (or something malformed) is stored.
func (e *Engine) Settings(ctx context.Context, userID string) domain.QuizSettings {
	settings, ok, err := e.state.LoadSettings(ctx, userID)
	if err != nil || !ok {
		categories, catErr := e.Categories(ctx)
		if catErr != nil {
			categories = nil
		}
		return domain.DefaultSettings(categories)
	}
	return settings
}

// UpdateSettings persists new settings. An in-progress session is unaffected.
func (e *Engine) UpdateSettings(ctx context.Context, userID string, settings domain.QuizSettings) {
	if err := e.state.SaveSettings(ctx, userID, settings); err != nil {
		log.Printf("save settings for %s: %v", userID, err)
	}
}

// Stats returns the user's persisted stats, seeded with the locked
// achievement catalog on first load and reconciled with any
// achievements added since the stats were written.
func (e *Engine) Stats(ctx context.Context, userID string) domain.UserStats {
	catalog := achievements.Catalog()
	userStats, ok, err := e.state.LoadStats(ctx, userID)
	if err != nil || !ok {
		return domain.DefaultStats(catalog)
	}
	if userStats.CategoryStats == nil {
		userStats.CategoryStats = make(map[string]domain.CategoryStat)
	}
	userStats.Achievements = reconcileAchievements(userStats.Achievements, catalog)
	return userStats
}

// reconcileAchievements appends catalog entries missing from the stored
// list, preserving unlock state for the rest.
func reconcileAchievements(stored, catalog []domain.Achievement) []domain.Achievement {
	byID := make(map[string]struct{}, len(stored))
	for _, a := range stored {
		byID[a.ID] = struct{}{}
	}
	for _, a := range catalog {
		if _, ok := byID[a.ID]; !ok {
			stored = append(stored, a)
		}
	}
	return stored
}

// PowerUps returns the static power-up catalog.
func (e *Engine) PowerUps() []domain.PowerUp {
	return PowerUps()
}

// Start creates a session from the settings: the bank is filtered by
// category and difficulty, shuffled, and truncated to the requested
// count. An empty category selection or zero matches is rejected before
// any session exists. A prior session for the user is abandoned.
func (e *Engine) Start(ctx context.Context, userID string, settings domain.QuizSettings) (*Session, error) {
	if len(settings.Categories) == 0 {
		return nil, domain.ErrNoCategories
	}
	bank, err := e.bank.GetBank(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(settings.Categories))
	for _, c := range settings.Categories {
		wanted[c] = struct{}{}
	}
	var questions []domain.Question
	for _, q := range bank {
		if _, ok := wanted[q.Category]; !ok {
			continue
		}
		if settings.Difficulty != domain.DifficultyMixed && q.Difficulty != settings.Difficulty {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}

	e.mu.Lock()
	e.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	seed := e.rng.Int63()
	e.mu.Unlock()

	if settings.QuestionCount > 0 && len(questions) > settings.QuestionCount {
		questions = questions[:settings.QuestionCount]
	}

	if old, ok := e.sessions.Get(userID); ok {
		old.Close()
	}
	session := newSession(userID, settings, questions, e.timing, e.clock,
		e.scheduler, rand.New(rand.NewSource(seed)), e.finalize)
	e.sessions.Put(userID, session)
	session.begin()
	return session, nil
}

// Session returns the user's live session. A finished session stays in
// the store until abandoned or replaced but is no longer actionable.
func (e *Engine) Session(userID string) (*Session, error) {
	session, ok := e.sessions.Get(userID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.Completed() {
		return nil, domain.ErrSessionCompleted
	}
	return session, nil
}

// Abandon discards the user's session without finalization.
func (e *Engine) Abandon(userID string) {
	if session, ok := e.sessions.Get(userID); ok {
		session.Close()
		e.sessions.Delete(userID)
	}
}

// UsePowerUp consumes a power-up for the user's session, charging its
// XP cost against persisted stats immediately. Reports whether anything
// happened; an already-used id or insufficient XP is a silent no-op.
func (e *Engine) UsePowerUp(ctx context.Context, userID, powerUpID string) bool {
	session, ok := e.sessions.Get(userID)
	if !ok {
		return false
	}
	powerUp, ok := powerUpByID(powerUpID)
	if !ok {
		return false
	}
	if session.PowerUpUsed(powerUpID) {
		return false
	}
	userStats := e.Stats(ctx, userID)
	if userStats.TotalXP < powerUp.Cost {
		return false
	}
	if !session.ApplyPowerUp(powerUpID) {
		return false
	}
	userStats.TotalXP -= powerUp.Cost
	userStats.Level = userStats.TotalXP/100 + 1
	if err := e.state.SaveStats(ctx, userID, userStats); err != nil {
		log.Printf("save stats for %s: %v", userID, err)
	}
	return true
}

// finalize folds a completed session into persisted stats, evaluates
// achievements against the updated record, and notifies subscribers.
func (e *Engine) finalize(session *Session, outcome domain.Outcome) {
	ctx := context.Background()
	userID := session.UserID()

	prior := e.Stats(ctx, userID)
	questions, answers := session.Results()
	updated, earned := stats.Finalize(prior, questions, answers, outcome)
	unlocked := achievements.Evaluate(&updated, outcome, e.clock())

	if err := e.state.SaveStats(ctx, userID, updated); err != nil {
		log.Printf("save stats for %s: %v", userID, err)
	}

	summary := Summary{
		Outcome:  outcome,
		Accuracy: outcome.Accuracy(),
		XPEarned: earned,
		Stats:    updated,
	}
	session.publish(Event{Type: EventCompleted, Summary: &summary})
	if len(unlocked) > 0 {
		session.publish(Event{Type: EventAchievements, Achievements: unlocked})
		if session.Settings().SoundEnabled {
			session.publish(Event{Type: EventSound, Sound: domain.SoundAchievement})
		}
	}
}
