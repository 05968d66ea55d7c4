package engine

import "quizmaster/internal/domain"

// EventType discriminates session events pushed to subscribers.
type EventType string

const (
	// EventState carries a fresh session snapshot after any transition.
	EventState EventType = "state"
	// EventSound asks the client to play an audible cue.
	EventSound EventType = "sound"
	// EventCompleted carries the final summary once the session finishes.
	EventCompleted EventType = "completed"
	// EventAchievements carries achievements newly unlocked by this session.
	EventAchievements EventType = "achievements"
)

// Event is a single notification from a session to its subscribers.
type Event struct {
	Type         EventType            `json:"type"`
	State        *SessionView         `json:"state,omitempty"`
	Sound        domain.SoundKind     `json:"sound,omitempty"`
	Summary      *Summary             `json:"summary,omitempty"`
	Achievements []domain.Achievement `json:"achievements,omitempty"`
}

// QuestionView is the client-safe projection of the current question.
// The correct index and explanation are withheld until the question
// has been revealed.
type QuestionView struct {
	ID           string            `json:"id"`
	Text         string            `json:"text"`
	Options      []string          `json:"options"`
	Category     string            `json:"category"`
	Difficulty   domain.Difficulty `json:"difficulty"`
	Points       int               `json:"points"`
	CorrectIndex int               `json:"correctIndex"`
	Explanation  string            `json:"explanation,omitempty"`
	Eliminated   []int             `json:"eliminated,omitempty"`
}

// SessionView is a snapshot of session state for rendering.
type SessionView struct {
	Index        int              `json:"index"`
	Total        int              `json:"total"`
	Question     QuestionView     `json:"question"`
	Selected     int              `json:"selected"` // NoAnswer when nothing picked
	Answered     []bool           `json:"answered"`
	Revealed     bool             `json:"revealed"`
	Score        int              `json:"score"`
	Streak       int              `json:"streak"`
	TimerMode    domain.TimerMode `json:"timerMode"`
	Remaining    int              `json:"remaining"` // seconds on the active countdown
	Paused       bool             `json:"paused"`
	TimeUp       bool             `json:"timeUp"`
	Completed    bool             `json:"completed"`
	UsedPowerUps []string         `json:"usedPowerUps"`
}

// Summary is the completed-quiz report.
type Summary struct {
	Outcome  domain.Outcome  `json:"outcome"`
	Accuracy float64         `json:"accuracy"`
	XPEarned int             `json:"xpEarned"`
	Stats    domain.UserStats `json:"stats"`
}
