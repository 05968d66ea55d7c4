package engine

import (
	"math/rand"
	"sync"
	"time"

	"quizmaster/internal/domain"
)

// NoAnswer marks a question slot with no recorded selection.
const NoAnswer = -1

// Timing groups the countdown constants for a session.
type Timing struct {
	QuestionSeconds  int           // per-question countdown length
	TotalPerQuestion int           // total countdown = this * question count
	Grace            time.Duration // delay before auto-advance after expiry
	ExtraTimeSeconds int           // extra-time power-up bonus
}

// DefaultTiming mirrors the stock client constants.
func DefaultTiming() Timing {
	return Timing{
		QuestionSeconds:  30,
		TotalPerQuestion: 30,
		Grace:            time.Second,
		ExtraTimeSeconds: 15,
	}
}

// Session is one in-progress or completed quiz attempt. All state
// transitions happen under the session mutex; scheduler callbacks
// arrive on other goroutines.
type Session struct {
	userID   string
	settings domain.QuizSettings
	timing   Timing

	now       func() time.Time
	scheduler Scheduler
	rng       *rand.Rand

	// onComplete runs finalization; invoked outside the session lock.
	onComplete func(s *Session, out domain.Outcome)

	mu           sync.Mutex
	questions    []domain.Question
	answers      []int
	revealed     []bool // per question: has its correctness been shown
	scored       []bool // per question: has Advance confirmed it
	eliminated   map[int][]int
	current      int
	score        int
	streak       int
	bestStreak   int
	completed    bool
	timeUp       bool
	paused       bool
	remaining    int // seconds on the active countdown
	usedPowerUps map[string]bool

	startedAt         time.Time
	questionStartedAt time.Time
	completedAt       time.Time

	cancelTick  func()
	cancelGrace func()

	subscribers map[chan Event]struct{}
}

func newSession(userID string, settings domain.QuizSettings, questions []domain.Question, timing Timing, now func() time.Time, scheduler Scheduler, rng *rand.Rand, onComplete func(*Session, domain.Outcome)) *Session {
	started := now()
	s := &Session{
		userID:            userID,
		settings:          settings,
		timing:            timing,
		now:               now,
		scheduler:         scheduler,
		rng:               rng,
		onComplete:        onComplete,
		questions:         questions,
		answers:           make([]int, len(questions)),
		revealed:          make([]bool, len(questions)),
		scored:            make([]bool, len(questions)),
		eliminated:        make(map[int][]int),
		usedPowerUps:      make(map[string]bool),
		startedAt:         started,
		questionStartedAt: started,
		subscribers:       make(map[chan Event]struct{}),
	}
	for i := range s.answers {
		s.answers[i] = NoAnswer
	}
	switch settings.TimerMode {
	case domain.TimerPerQuestion:
		s.remaining = timing.QuestionSeconds
	case domain.TimerTotal:
		s.remaining = timing.TotalPerQuestion * len(questions)
	}
	return s
}

// begin starts the one-second cadence for timed modes.
func (s *Session) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.TimerMode != domain.TimerNone {
		s.cancelTick = s.scheduler.Every(time.Second, s.tick)
	}
}

// UserID identifies the session owner.
func (s *Session) UserID() string { return s.userID }

// Settings returns the configuration the session was started with.
func (s *Session) Settings() domain.QuizSettings { return s.settings }

// SelectAnswer records a selection for the current question. Rejected
// once the question has been revealed.
func (s *Session) SelectAnswer(optionIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.revealed[s.current] {
		return false
	}
	if optionIndex < 0 || optionIndex >= len(s.questions[s.current].Options) {
		return false
	}
	s.answers[s.current] = optionIndex
	s.publishStateLocked()
	return true
}

// Reveal locks in the current question and shows its correctness.
// Further selections are frozen until navigation leaves the question.
func (s *Session) Reveal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.revealed[s.current] {
		return false
	}
	s.revealed[s.current] = true
	s.answerSoundLocked()
	s.publishStateLocked()
	return true
}

// answerSoundLocked plays the correctness cue for the current question.
func (s *Session) answerSoundLocked() {
	if s.answers[s.current] == s.questions[s.current].CorrectIndex {
		s.soundLocked(domain.SoundCorrect)
	} else {
		s.soundLocked(domain.SoundIncorrect)
	}
}

// Advance confirms the current question, updates score and streak, and
// moves on; on the last question it completes the session and triggers
// finalization.
func (s *Session) Advance() {
	s.mu.Lock()
	out, done := s.advanceLocked()
	s.mu.Unlock()
	if done {
		s.finish(out)
	}
}

func (s *Session) advanceLocked() (domain.Outcome, bool) {
	if s.completed {
		return domain.Outcome{}, false
	}
	s.cancelGraceLocked()

	if !s.scored[s.current] {
		s.scored[s.current] = true
		// The cue plays when correctness is first shown; a manual reveal
		// already played it.
		if !s.revealed[s.current] {
			s.revealed[s.current] = true
			s.answerSoundLocked()
		}
		if s.answers[s.current] == s.questions[s.current].CorrectIndex {
			s.score++
			s.streak++
			if s.streak > s.bestStreak {
				s.bestStreak = s.streak
			}
		} else {
			s.streak = 0
		}
	}

	if s.current == len(s.questions)-1 {
		return s.completeLocked(), true
	}

	s.current++
	s.timeUp = false
	if s.settings.TimerMode == domain.TimerPerQuestion {
		s.remaining = s.timing.QuestionSeconds
	}
	s.questionStartedAt = s.now()
	s.publishStateLocked()
	return domain.Outcome{}, false
}

// Retreat moves back one question, restoring its prior answer and
// reveal state. No scoring happens.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.current == 0 {
		return
	}
	s.jumpLocked(s.current - 1)
}

// JumpTo navigates directly to any question in range.
func (s *Session) JumpTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || index < 0 || index >= len(s.questions) || index == s.current {
		return
	}
	s.jumpLocked(index)
}

func (s *Session) jumpLocked(index int) {
	s.cancelGraceLocked()
	s.current = index
	s.timeUp = false
	if s.settings.TimerMode == domain.TimerPerQuestion && !s.revealed[index] {
		s.remaining = s.timing.QuestionSeconds
	}
	s.questionStartedAt = s.now()
	s.publishStateLocked()
}

// Pause stops the active countdown. Ignored while the current question
// is revealed, matching the client's disabled toggle.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.settings.TimerMode == domain.TimerNone {
		return
	}
	if s.settings.TimerMode == domain.TimerPerQuestion && s.revealed[s.current] {
		return
	}
	if !s.paused {
		s.paused = true
		s.publishStateLocked()
	}
}

// Resume restarts a paused countdown.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || !s.paused {
		return
	}
	s.paused = false
	s.publishStateLocked()
}

// tick burns one second off the active countdown. Ticks arriving after
// completion or cancellation are no-ops.
func (s *Session) tick() {
	s.mu.Lock()
	out, done := s.tickLocked()
	s.mu.Unlock()
	if done {
		s.finish(out)
	}
}

func (s *Session) tickLocked() (domain.Outcome, bool) {
	if s.completed || s.paused {
		return domain.Outcome{}, false
	}
	switch s.settings.TimerMode {
	case domain.TimerPerQuestion:
		if s.timeUp || s.revealed[s.current] {
			return domain.Outcome{}, false
		}
		s.remaining--
		if s.remaining <= 0 {
			s.remaining = 0
			s.timeUp = true
			s.soundLocked(domain.SoundTick)
			s.cancelGrace = s.scheduler.After(s.timing.Grace, s.Advance)
		} else if s.remaining <= 10 {
			s.soundLocked(domain.SoundTick)
		}
		s.publishStateLocked()
	case domain.TimerTotal:
		s.remaining--
		if s.remaining <= 0 {
			s.remaining = 0
			s.timeUp = true
			return s.forceCompleteLocked(), true
		}
		if s.remaining <= 30 {
			s.soundLocked(domain.SoundTick)
		}
		s.publishStateLocked()
	}
	return domain.Outcome{}, false
}

// forceCompleteLocked ends the session immediately, replaying every
// recorded answer so unanswered slots count as incorrect.
func (s *Session) forceCompleteLocked() domain.Outcome {
	s.score = 0
	s.streak = 0
	s.bestStreak = 0
	for i := range s.questions {
		s.scored[i] = true
		s.revealed[i] = true
		if s.answers[i] == s.questions[i].CorrectIndex {
			s.score++
			s.streak++
			if s.streak > s.bestStreak {
				s.bestStreak = s.streak
			}
		} else {
			s.streak = 0
		}
	}
	return s.completeLocked()
}

func (s *Session) completeLocked() domain.Outcome {
	s.completed = true
	s.completedAt = s.now()
	s.cancelTickLocked()
	s.cancelGraceLocked()
	s.soundLocked(domain.SoundComplete)
	s.publishStateLocked()
	return s.outcomeLocked()
}

func (s *Session) outcomeLocked() domain.Outcome {
	return domain.Outcome{
		Score:     s.score,
		Questions: len(s.questions),
		Streak:    s.streak,
		Elapsed:   s.completedAt.Sub(s.startedAt),
		TimerMode: s.settings.TimerMode,
		Completed: true,
	}
}

func (s *Session) finish(out domain.Outcome) {
	if s.onComplete != nil {
		s.onComplete(s, out)
	}
}

// PowerUpUsed reports whether the power-up was already consumed.
func (s *Session) PowerUpUsed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedPowerUps[id]
}

// ApplyPowerUp consumes a power-up and applies its effect. Returns
// false without side effects when the power-up was already used or
// cannot apply to the current state; the caller only charges XP on true.
func (s *Session) ApplyPowerUp(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.usedPowerUps[id] {
		return false
	}
	switch id {
	case PowerUpExtraTime:
		if s.settings.TimerMode != domain.TimerPerQuestion || s.revealed[s.current] {
			return false
		}
		s.remaining += s.timing.ExtraTimeSeconds
		s.timeUp = false
	case PowerUpFiftyFifty:
		if s.revealed[s.current] || len(s.questions[s.current].Options) < 3 {
			return false
		}
		if _, ok := s.eliminated[s.current]; ok {
			return false
		}
		s.eliminated[s.current] = s.pickWrongLocked(2)
	case PowerUpSkip:
		if s.revealed[s.current] {
			return false
		}
		s.revealed[s.current] = true
		s.cancelGrace = s.scheduler.After(s.timing.Grace, s.Advance)
	default:
		return false
	}
	s.usedPowerUps[id] = true
	s.publishStateLocked()
	return true
}

// pickWrongLocked selects n incorrect option indices for display elimination.
func (s *Session) pickWrongLocked(n int) []int {
	q := s.questions[s.current]
	wrong := make([]int, 0, len(q.Options)-1)
	for i := range q.Options {
		if i != q.CorrectIndex {
			wrong = append(wrong, i)
		}
	}
	if s.rng != nil {
		s.rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	}
	if n > len(wrong) {
		n = len(wrong)
	}
	return wrong[:n]
}

// Close abandons the session: timers stop, no finalization runs.
// XP already spent on power-ups stays spent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return
	}
	s.completed = true
	s.cancelTickLocked()
	s.cancelGraceLocked()
}

// Results returns the session's questions and recorded answers for
// stats aggregation.
func (s *Session) Results() ([]domain.Question, []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions := make([]domain.Question, len(s.questions))
	copy(questions, s.questions)
	answers := make([]int, len(s.answers))
	copy(answers, s.answers)
	return questions, answers
}

// Completed reports whether the session has finished or been abandoned.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

func (s *Session) cancelTickLocked() {
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Session) cancelGraceLocked() {
	if s.cancelGrace != nil {
		s.cancelGrace()
		s.cancelGrace = nil
	}
}

// View snapshots the session for rendering.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() SessionView {
	q := s.questions[s.current]
	qv := QuestionView{
		ID:           q.ID,
		Text:         q.Text,
		Options:      q.Options,
		Category:     q.Category,
		Difficulty:   q.Difficulty,
		Points:       q.Points,
		CorrectIndex: NoAnswer,
		Eliminated:   s.eliminated[s.current],
	}
	if s.revealed[s.current] {
		qv.CorrectIndex = q.CorrectIndex
		qv.Explanation = q.Explanation
	}
	answered := make([]bool, len(s.answers))
	for i, a := range s.answers {
		answered[i] = a != NoAnswer
	}
	used := make([]string, 0, len(s.usedPowerUps))
	for id := range s.usedPowerUps {
		used = append(used, id)
	}
	return SessionView{
		Index:        s.current,
		Total:        len(s.questions),
		Question:     qv,
		Selected:     s.answers[s.current],
		Answered:     answered,
		Revealed:     s.revealed[s.current],
		Score:        s.score,
		Streak:       s.streak,
		TimerMode:    s.settings.TimerMode,
		Remaining:    s.remaining,
		Paused:       s.paused,
		TimeUp:       s.timeUp,
		Completed:    s.completed,
		UsedPowerUps: used,
	}
}

// Subscribe returns a channel of session events. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.viewLocked()
	s.mu.Unlock()

	ch <- Event{Type: EventState, State: &initial}

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) publishStateLocked() {
	view := s.viewLocked()
	s.publishLocked(Event{Type: EventState, State: &view})
}

func (s *Session) soundLocked(kind domain.SoundKind) {
	if !s.settings.SoundEnabled {
		return
	}
	s.publishLocked(Event{Type: EventSound, Sound: kind})
}

// publish delivers an event after finalization, outside state transitions.
func (s *Session) publish(event Event) {
	s.mu.Lock()
	s.publishLocked(event)
	s.mu.Unlock()
}

func (s *Session) publishLocked(event Event) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Drop the oldest update so a slow client never blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
