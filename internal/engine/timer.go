package engine

import (
	"sort"
	"sync"
	"time"
)

// Scheduler abstracts timer callbacks so countdown behavior is
// deterministic in tests. Cancel functions are idempotent; a callback
// already in flight when cancel is invoked may still run, so callbacks
// must treat stale delivery as a no-op.
type Scheduler interface {
	// Every invokes fn once per interval until canceled.
	Every(interval time.Duration, fn func()) (cancel func())
	// After invokes fn once after the delay unless canceled first.
	After(delay time.Duration, fn func()) (cancel func())
}

// NewWallScheduler returns a Scheduler backed by the wall clock.
func NewWallScheduler() Scheduler {
	return &wallScheduler{}
}

type wallScheduler struct{}

func (wallScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (wallScheduler) After(delay time.Duration, fn func()) func() {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}

// ManualScheduler is a test Scheduler driven by Advance instead of real time.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	at       time.Duration
	interval time.Duration // zero for one-shot
	fn       func()
}

// NewManualScheduler returns a Scheduler whose clock only moves via Advance.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[int]*manualTimer)}
}

func (m *ManualScheduler) Every(interval time.Duration, fn func()) func() {
	return m.add(&manualTimer{at: m.clock() + interval, interval: interval, fn: fn})
}

func (m *ManualScheduler) After(delay time.Duration, fn func()) func() {
	return m.add(&manualTimer{at: m.clock() + delay, fn: fn})
}

func (m *ManualScheduler) clock() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualScheduler) add(t *manualTimer) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.timers[id] = t
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.timers, id)
			m.mu.Unlock()
		})
	}
}

// Advance moves the virtual clock forward, firing due callbacks in order.
// Callbacks run on the calling goroutine, so a test observes every
// side effect before Advance returns.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		fn, ok := m.popDue(target)
		if !ok {
			break
		}
		fn()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// popDue finds the earliest timer due at or before target, advances the
// virtual clock to it, reschedules it if periodic, and returns its callback.
func (m *ManualScheduler) popDue(target time.Duration) (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int, 0, len(m.timers))
	for id := range m.timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := m.timers[ids[i]], m.timers[ids[j]]
		if ti.at != tj.at {
			return ti.at < tj.at
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		t := m.timers[id]
		if t.at > target {
			break
		}
		m.now = t.at
		if t.interval > 0 {
			t.at += t.interval
		} else {
			delete(m.timers, id)
		}
		return t.fn, true
	}
	return nil, false
}
