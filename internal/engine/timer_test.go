package engine_test

import (
	"testing"
	"time"

	"quizmaster/internal/engine"
)

func TestManualSchedulerAfter(t *testing.T) {
	s := engine.NewManualScheduler()
	fired := 0
	s.After(3*time.Second, func() { fired++ })

	s.Advance(2 * time.Second)
	if fired != 0 {
		t.Fatalf("fired early")
	}
	s.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("expected one fire, got %d", fired)
	}
	s.Advance(time.Minute)
	if fired != 1 {
		t.Fatalf("one-shot fired again: %d", fired)
	}
}

func TestManualSchedulerEvery(t *testing.T) {
	s := engine.NewManualScheduler()
	fired := 0
	cancel := s.Every(time.Second, func() { fired++ })

	s.Advance(3 * time.Second)
	if fired != 3 {
		t.Fatalf("expected 3 fires, got %d", fired)
	}

	cancel()
	cancel() // idempotent
	s.Advance(10 * time.Second)
	if fired != 3 {
		t.Fatalf("fired after cancel: %d", fired)
	}
}

func TestManualSchedulerCancelBeforeDue(t *testing.T) {
	s := engine.NewManualScheduler()
	fired := false
	cancel := s.After(time.Second, func() { fired = true })
	cancel()

	s.Advance(time.Minute)
	if fired {
		t.Fatalf("canceled timer fired")
	}
}

func TestManualSchedulerOrdersCallbacks(t *testing.T) {
	s := engine.NewManualScheduler()
	var order []string
	s.After(2*time.Second, func() { order = append(order, "b") })
	s.After(time.Second, func() { order = append(order, "a") })

	s.Advance(5 * time.Second)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("wrong order: %v", order)
	}
}

// A callback scheduling a new timer due inside the same window must see
// it fire before Advance returns. The grace auto-advance depends on this.
func TestManualSchedulerNestedSchedule(t *testing.T) {
	s := engine.NewManualScheduler()
	var order []string
	s.After(time.Second, func() {
		order = append(order, "outer")
		s.After(time.Second, func() { order = append(order, "inner") })
	})

	s.Advance(2 * time.Second)
	if len(order) != 2 || order[1] != "inner" {
		t.Fatalf("nested timer did not fire in window: %v", order)
	}
}

func TestWallSchedulerAfter(t *testing.T) {
	s := engine.NewWallScheduler()
	done := make(chan struct{})
	s.After(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("callback never fired")
	}
}
