// Package stats folds completed quiz sessions into the cumulative,
// persisted user record.
package stats

import (
	"time"

	"quizmaster/internal/domain"
)

const (
	xpPerCorrect     = 10
	streakBonusStep  = 3 // every 3 consecutive correct answers
	streakBonusXP    = 5
	speedBonusXP     = 20
	speedBonusWindow = 3 * time.Minute
	xpPerLevel       = 100
)

// Finalize folds a completed session into the prior stats and returns
// the updated record plus the XP awarded for the session. The caller
// runs achievement evaluation on the result before persisting it.
func Finalize(prior domain.UserStats, questions []domain.Question, answers []int, outcome domain.Outcome) (domain.UserStats, int) {
	updated := prior

	updated.TotalQuizzes++
	updated.TotalQuestions += outcome.Questions
	updated.CorrectAnswers += outcome.Score
	updated.Streak = outcome.Streak
	if outcome.Streak > updated.BestStreak {
		updated.BestStreak = outcome.Streak
	}

	earned := XPAwarded(outcome)
	updated.TotalXP += earned
	updated.Level = updated.TotalXP/xpPerLevel + 1

	// Recency-weighted smoothing, not a true running mean; kept for
	// compatibility with stored records.
	updated.AverageTime = (prior.AverageTime + float64(outcome.Elapsed.Milliseconds())) / 2

	stats := make(map[string]domain.CategoryStat, len(prior.CategoryStats))
	for category, s := range prior.CategoryStats {
		stats[category] = s
	}
	for i, q := range questions {
		s := stats[q.Category]
		s.Total++
		if i < len(answers) && answers[i] == q.CorrectIndex {
			s.Correct++
		}
		stats[q.Category] = s
	}
	updated.CategoryStats = stats

	return updated, earned
}

// XPAwarded computes the session XP: a flat award per correct answer, a
// streak bonus per full streak step, and a speed bonus for finishing a
// timed quiz quickly.
func XPAwarded(outcome domain.Outcome) int {
	earned := outcome.Score*xpPerCorrect + outcome.Streak/streakBonusStep*streakBonusXP
	if outcome.TimerMode != domain.TimerNone && outcome.Elapsed < speedBonusWindow {
		earned += speedBonusXP
	}
	return earned
}
