package stats

import (
	"testing"
	"time"

	"quizmaster/internal/domain"
)

func question(id, category string, correct int) domain.Question {
	return domain.Question{
		ID:           id,
		Text:         id,
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: correct,
		Category:     category,
		Difficulty:   domain.DifficultyEasy,
		Points:       1,
	}
}

func TestFinalizeTotalsAndXP(t *testing.T) {
	questions := []domain.Question{
		question("q1", "Science", 0),
		question("q2", "Science", 1),
		question("q3", "Math", 2),
	}
	answers := []int{0, 1, 3} // two correct, one wrong
	outcome := domain.Outcome{
		Score:     2,
		Questions: 3,
		Streak:    2,
		Elapsed:   90 * time.Second,
		TimerMode: domain.TimerPerQuestion,
		Completed: true,
	}

	updated, earned := Finalize(domain.UserStats{Level: 1}, questions, answers, outcome)

	if updated.TotalQuizzes != 1 || updated.TotalQuestions != 3 || updated.CorrectAnswers != 2 {
		t.Fatalf("totals: %+v", updated)
	}
	// 2 correct * 10, no full streak step, speed bonus for a timed quiz under 3 minutes.
	if earned != 40 || updated.TotalXP != 40 {
		t.Fatalf("earned %d, total %d", earned, updated.TotalXP)
	}
	if updated.Level != 1 {
		t.Fatalf("level %d", updated.Level)
	}
	if got := updated.CategoryStats["Science"]; got.Correct != 2 || got.Total != 2 {
		t.Fatalf("science stats %+v", got)
	}
	if got := updated.CategoryStats["Math"]; got.Correct != 0 || got.Total != 1 {
		t.Fatalf("math stats %+v", got)
	}
}

func TestFinalizeStreakBonusAndLevel(t *testing.T) {
	questions := make([]domain.Question, 10)
	answers := make([]int, 10)
	for i := range questions {
		questions[i] = question("q", "Math", 0)
		answers[i] = 0
	}
	outcome := domain.Outcome{
		Score:     10,
		Questions: 10,
		Streak:    10,
		Elapsed:   10 * time.Minute,
		TimerMode: domain.TimerNone,
		Completed: true,
	}

	prior := domain.UserStats{TotalXP: 90, Level: 1, BestStreak: 4}
	updated, earned := Finalize(prior, questions, answers, outcome)

	// 100 base + floor(10/3)*5 streak bonus; no speed bonus without a timer.
	if earned != 115 {
		t.Fatalf("earned %d", earned)
	}
	if updated.TotalXP != 205 || updated.Level != 3 {
		t.Fatalf("xp %d level %d", updated.TotalXP, updated.Level)
	}
	if updated.Streak != 10 || updated.BestStreak != 10 {
		t.Fatalf("streaks %+v", updated)
	}
}

func TestFinalizeKeepsBestStreak(t *testing.T) {
	prior := domain.UserStats{BestStreak: 8}
	updated, _ := Finalize(prior, nil, nil, domain.Outcome{Streak: 3})
	if updated.Streak != 3 || updated.BestStreak != 8 {
		t.Fatalf("streaks %+v", updated)
	}
}

func TestFinalizeAverageTimeSmoothing(t *testing.T) {
	prior := domain.UserStats{AverageTime: 60000}
	updated, _ := Finalize(prior, nil, nil, domain.Outcome{Elapsed: 2 * time.Minute})
	if updated.AverageTime != (60000+120000)/2 {
		t.Fatalf("average time %f", updated.AverageTime)
	}
}

func TestFinalizeDoesNotMutatePriorCategoryMap(t *testing.T) {
	prior := domain.UserStats{
		CategoryStats: map[string]domain.CategoryStat{
			"Science": {Correct: 5, Total: 10},
		},
	}
	questions := []domain.Question{question("q1", "Science", 0)}
	updated, _ := Finalize(prior, questions, []int{0}, domain.Outcome{Score: 1, Questions: 1})

	if got := prior.CategoryStats["Science"]; got.Correct != 5 || got.Total != 10 {
		t.Fatalf("prior map mutated: %+v", got)
	}
	if got := updated.CategoryStats["Science"]; got.Correct != 6 || got.Total != 11 {
		t.Fatalf("updated map wrong: %+v", got)
	}
}

func TestXPAwardedSpeedBonusBoundary(t *testing.T) {
	timed := domain.Outcome{Score: 1, TimerMode: domain.TimerTotal, Elapsed: 3 * time.Minute}
	if got := XPAwarded(timed); got != 10 {
		t.Fatalf("bonus at exactly 3 minutes: %d", got)
	}
	timed.Elapsed = 3*time.Minute - time.Second
	if got := XPAwarded(timed); got != 30 {
		t.Fatalf("missing bonus just under 3 minutes: %d", got)
	}
	untimed := domain.Outcome{Score: 1, TimerMode: domain.TimerNone, Elapsed: time.Second}
	if got := XPAwarded(untimed); got != 10 {
		t.Fatalf("bonus on untimed quiz: %d", got)
	}
}
