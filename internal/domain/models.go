package domain

import "time"

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	// DifficultyMixed is only valid in settings, never on a question.
	DifficultyMixed Difficulty = "mixed"
)

// TimerMode selects which countdown (if any) runs during a session.
type TimerMode string

const (
	TimerPerQuestion TimerMode = "per-question"
	TimerTotal       TimerMode = "total"
	TimerNone        TimerMode = "none"
)

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Category     string     `json:"category"`
	Difficulty   Difficulty `json:"difficulty"`
	Points       int        `json:"points"` // defaults to 1 if zero
	Explanation  string     `json:"explanation,omitempty"`
}

// QuizSettings is the user-editable, persisted quiz configuration.
// Mutating settings never affects an in-progress session.
type QuizSettings struct {
	Theme         string     `json:"theme"`
	SoundEnabled  bool       `json:"soundEnabled"`
	TimerMode     TimerMode  `json:"timerMode"`
	Difficulty    Difficulty `json:"difficulty"`
	Categories    []string   `json:"categories"`
	QuestionCount int        `json:"questionCount"`
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings(categories []string) QuizSettings {
	return QuizSettings{
		Theme:         "light",
		SoundEnabled:  true,
		TimerMode:     TimerPerQuestion,
		Difficulty:    DifficultyMixed,
		Categories:    categories,
		QuestionCount: 10,
	}
}

// Achievement is a badge that unlocks exactly once, irreversibly.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// CategoryStat tracks per-category accuracy.
type CategoryStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// UserStats is the cumulative, persisted player record.
type UserStats struct {
	TotalQuizzes   int                     `json:"totalQuizzes"`
	TotalQuestions int                     `json:"totalQuestions"`
	CorrectAnswers int                     `json:"correctAnswers"`
	Streak         int                     `json:"streak"`
	BestStreak     int                     `json:"bestStreak"`
	TotalXP        int                     `json:"totalXP"`
	Level          int                     `json:"level"`
	AverageTime    float64                 `json:"averageTime"` // milliseconds, recency-weighted
	CategoryStats  map[string]CategoryStat `json:"categoryStats"`
	Achievements   []Achievement           `json:"achievements"`
}

// DefaultStats returns a fresh record with every achievement locked.
func DefaultStats(catalog []Achievement) UserStats {
	achievements := make([]Achievement, len(catalog))
	copy(achievements, catalog)
	return UserStats{
		Level:         1,
		CategoryStats: make(map[string]CategoryStat),
		Achievements:  achievements,
	}
}

// Accuracy returns the lifetime correct-answer ratio in percent.
func (s UserStats) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100
}

// PowerUp is a one-time-per-session, XP-costed session modifier.
type PowerUp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Cost        int    `json:"cost"`
}

// SoundKind identifies an audible cue the client should play.
type SoundKind string

const (
	SoundCorrect     SoundKind = "correct"
	SoundIncorrect   SoundKind = "incorrect"
	SoundComplete    SoundKind = "complete"
	SoundAchievement SoundKind = "achievement"
	SoundTick        SoundKind = "tick"
)

// Outcome summarizes a finished session for the aggregator and evaluator.
type Outcome struct {
	Score     int           `json:"score"`
	Questions int           `json:"questions"`
	Streak    int           `json:"streak"`
	Elapsed   time.Duration `json:"elapsed"`
	TimerMode TimerMode     `json:"timerMode"`
	Completed bool          `json:"completed"`
}

// Accuracy returns the session score ratio in percent.
func (o Outcome) Accuracy() float64 {
	if o.Questions == 0 {
		return 0
	}
	return float64(o.Score) / float64(o.Questions) * 100
}
