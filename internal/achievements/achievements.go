// Package achievements holds the fixed achievement catalog and the
// unlock evaluator run after every quiz finalization.
package achievements

import (
	"time"

	"quizmaster/internal/domain"
)

// Achievement identifiers.
const (
	FirstQuiz        = "first-quiz"
	PerfectScore     = "perfect-score"
	SpeedDemon       = "speed-demon"
	Streak5          = "streak-5"
	Streak10         = "streak-10"
	ScienceMaster    = "category-master-science"
	MathMaster       = "category-master-math"
	Level5           = "level-5"
	Level10          = "level-10"
	HundredQuestions = "hundred-questions"
)

// speedDemonWindow is the completion time required for Speed Demon.
const speedDemonWindow = 2 * time.Minute

// Catalog returns the fixed achievement set, all locked. Output order
// is the display/notification order.
func Catalog() []domain.Achievement {
	return []domain.Achievement{
		{ID: FirstQuiz, Name: "Getting Started", Description: "Complete your first quiz", Icon: "🎯"},
		{ID: PerfectScore, Name: "Perfectionist", Description: "Get 100% on a quiz", Icon: "🏆"},
		{ID: SpeedDemon, Name: "Speed Demon", Description: "Complete a quiz in under 2 minutes", Icon: "⚡"},
		{ID: Streak5, Name: "On Fire", Description: "Get 5 questions correct in a row", Icon: "🔥"},
		{ID: Streak10, Name: "Unstoppable", Description: "Get 10 questions correct in a row", Icon: "🚀"},
		{ID: ScienceMaster, Name: "Science Master", Description: "Answer 20 science questions correctly", Icon: "🧪"},
		{ID: MathMaster, Name: "Math Wizard", Description: "Answer 20 math questions correctly", Icon: "🔢"},
		{ID: Level5, Name: "Rising Star", Description: "Reach level 5", Icon: "⭐"},
		{ID: Level10, Name: "Quiz Master", Description: "Reach level 10", Icon: "👑"},
		{ID: HundredQuestions, Name: "Century Club", Description: "Answer 100 questions", Icon: "💯"},
	}
}

// Evaluate checks every still-locked achievement against the
// post-update stats and session outcome, flips the ones whose predicate
// now holds, and returns them in catalog order. An unlocked achievement
// never re-locks and its timestamp never changes.
func Evaluate(stats *domain.UserStats, outcome domain.Outcome, now time.Time) []domain.Achievement {
	var unlocked []domain.Achievement
	for i := range stats.Achievements {
		a := &stats.Achievements[i]
		if a.Unlocked {
			continue
		}
		if !satisfied(a.ID, stats, outcome) {
			continue
		}
		a.Unlocked = true
		at := now
		a.UnlockedAt = &at
		unlocked = append(unlocked, *a)
	}
	return unlocked
}

func satisfied(id string, stats *domain.UserStats, outcome domain.Outcome) bool {
	switch id {
	case FirstQuiz:
		return stats.TotalQuizzes >= 1
	case PerfectScore:
		return outcome.Questions > 0 && outcome.Score == outcome.Questions
	case SpeedDemon:
		return outcome.Completed && outcome.Elapsed < speedDemonWindow
	case Streak5:
		return stats.BestStreak >= 5
	case Streak10:
		return stats.BestStreak >= 10
	case ScienceMaster:
		return stats.CategoryStats["Science"].Correct >= 20
	case MathMaster:
		return stats.CategoryStats["Math"].Correct >= 20
	case Level5:
		return stats.Level >= 5
	case Level10:
		return stats.Level >= 10
	case HundredQuestions:
		return stats.TotalQuestions >= 100
	}
	return false
}
