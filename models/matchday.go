package models

// MatchdayType distinguishes league rounds from cup rounds.
type MatchdayType string

const (
	MatchdayLeague MatchdayType = "LEAGUE"
	MatchdayCup    MatchdayType = "CUP"
)

func (t MatchdayType) Valid() bool {
	return t == MatchdayLeague || t == MatchdayCup
}

// Matchday is one numbered round of fixtures. (SaveGameID, Number) is unique.
type Matchday struct {
	ID         int          `json:"id" db:"id"`
	SaveGameID int          `json:"saveGameId" db:"save_game_id"`
	Number     int          `json:"number" db:"number"`
	Type       MatchdayType `json:"type" db:"type"`
	RoundLabel *string      `json:"roundLabel,omitempty" db:"round_label"` // cup rounds only
}

// Label returns the round label for cup rounds, falling back to the type.
func (m Matchday) Label() string {
	if m.RoundLabel != nil && *m.RoundLabel != "" {
		return *m.RoundLabel
	}
	return string(m.Type)
}
