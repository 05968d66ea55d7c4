package engine

import "quizmaster/internal/domain"

// Power-up identifiers.
const (
	PowerUpExtraTime  = "extra-time"
	PowerUpFiftyFifty = "fifty-fifty"
	PowerUpSkip       = "skip"
)

// PowerUps returns the static power-up catalog. The "used" state is
// per-session; the XP cost is charged against persisted stats.
func PowerUps() []domain.PowerUp {
	return []domain.PowerUp{
		{ID: PowerUpExtraTime, Name: "Extra Time", Description: "+15 seconds", Icon: "⏰", Cost: 50},
		{ID: PowerUpFiftyFifty, Name: "50/50", Description: "Remove 2 wrong answers", Icon: "🎯", Cost: 75},
		{ID: PowerUpSkip, Name: "Skip Question", Description: "Skip current question", Icon: "⏭️", Cost: 100},
	}
}

func powerUpByID(id string) (domain.PowerUp, bool) {
	for _, p := range PowerUps() {
		if p.ID == id {
			return p, true
		}
	}
	return domain.PowerUp{}, false
}
