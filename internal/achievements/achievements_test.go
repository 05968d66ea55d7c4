package achievements

import (
	"testing"
	"time"

	"quizmaster/internal/domain"
)

func baseStats() domain.UserStats {
	return domain.DefaultStats(Catalog())
}

func unlockedIDs(list []domain.Achievement) []string {
	var ids []string
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestFirstQuizAndPerfectScore(t *testing.T) {
	stats := baseStats()
	stats.TotalQuizzes = 1
	outcome := domain.Outcome{Score: 5, Questions: 5, Completed: true, Elapsed: 10 * time.Minute}

	unlocked := Evaluate(&stats, outcome, time.Now())
	got := unlockedIDs(unlocked)
	want := map[string]bool{FirstQuiz: true, PerfectScore: true}
	if len(got) != len(want) {
		t.Fatalf("unexpected unlocks: %v", got)
	}
	for _, id := range got {
		if !want[id] {
			t.Fatalf("unexpected unlock %s", id)
		}
	}
}

func TestPerfectScoreRequiresQuestions(t *testing.T) {
	stats := baseStats()
	outcome := domain.Outcome{Score: 0, Questions: 0, Completed: true, Elapsed: 10 * time.Minute}
	for _, a := range Evaluate(&stats, outcome, time.Now()) {
		if a.ID == PerfectScore {
			t.Fatalf("perfect score unlocked with zero questions")
		}
	}
}

func TestSpeedDemonNeedsCompletion(t *testing.T) {
	stats := baseStats()
	stats.TotalQuizzes = 1

	fast := domain.Outcome{Score: 1, Questions: 5, Completed: true, Elapsed: 90 * time.Second}
	found := false
	for _, a := range Evaluate(&stats, fast, time.Now()) {
		if a.ID == SpeedDemon {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected speed demon under 2 minutes")
	}

	slow := baseStats()
	slow.TotalQuizzes = 1
	for _, a := range Evaluate(&slow, domain.Outcome{Completed: true, Questions: 5, Elapsed: 2 * time.Minute}, time.Now()) {
		if a.ID == SpeedDemon {
			t.Fatalf("speed demon unlocked at exactly 2 minutes")
		}
	}
}

func TestStreakThresholds(t *testing.T) {
	stats := baseStats()
	stats.BestStreak = 7
	got := unlockedIDs(Evaluate(&stats, domain.Outcome{}, time.Now()))
	if !contains(got, Streak5) || contains(got, Streak10) {
		t.Fatalf("streak 7 unlocks: %v", got)
	}
}

func TestCategoryMasters(t *testing.T) {
	stats := baseStats()
	stats.CategoryStats["Science"] = domain.CategoryStat{Correct: 20, Total: 30}
	stats.CategoryStats["Math"] = domain.CategoryStat{Correct: 19, Total: 19}

	got := unlockedIDs(Evaluate(&stats, domain.Outcome{}, time.Now()))
	if !contains(got, ScienceMaster) || contains(got, MathMaster) {
		t.Fatalf("category masters: %v", got)
	}
}

func TestLevelAndVolumeThresholds(t *testing.T) {
	stats := baseStats()
	stats.Level = 10
	stats.TotalQuestions = 100

	got := unlockedIDs(Evaluate(&stats, domain.Outcome{}, time.Now()))
	for _, want := range []string{Level5, Level10, HundredQuestions} {
		if !contains(got, want) {
			t.Fatalf("missing %s in %v", want, got)
		}
	}
}

func TestUnlockIsPermanent(t *testing.T) {
	stats := baseStats()
	stats.TotalQuizzes = 1
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	unlocked := Evaluate(&stats, domain.Outcome{Questions: 1, Elapsed: time.Hour}, first)
	if len(unlocked) != 1 || unlocked[0].ID != FirstQuiz {
		t.Fatalf("expected first-quiz only, got %v", unlockedIDs(unlocked))
	}

	// Second evaluation reports nothing new and keeps the timestamp.
	again := Evaluate(&stats, domain.Outcome{Questions: 1, Elapsed: time.Hour}, first.Add(time.Hour))
	if len(again) != 0 {
		t.Fatalf("re-unlocked: %v", unlockedIDs(again))
	}
	for _, a := range stats.Achievements {
		if a.ID == FirstQuiz {
			if a.UnlockedAt == nil || !a.UnlockedAt.Equal(first) {
				t.Fatalf("timestamp changed: %v", a.UnlockedAt)
			}
		}
	}
}

func TestEvaluateReportsInCatalogOrder(t *testing.T) {
	stats := baseStats()
	stats.TotalQuizzes = 1
	stats.BestStreak = 10
	stats.Level = 10
	stats.TotalQuestions = 100

	got := unlockedIDs(Evaluate(&stats, domain.Outcome{Questions: 1, Elapsed: time.Hour}, time.Now()))
	want := []string{FirstQuiz, Streak5, Streak10, Level5, Level10, HundredQuestions}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v want %v", i, got, want)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
