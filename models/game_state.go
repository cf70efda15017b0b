package models

import "time"

// Stage is the phase of a round within a save game. Values match the game_stage column.
type Stage string

const (
	StageAction    Stage = "ACTION"    // pre-match actions (lineups, transfers)
	StageMatchday  Stage = "MATCHDAY"  // first half is live
	StageHalftime  Stage = "HALFTIME"  // break between halves
	StageResults   Stage = "RESULTS"   // full-time results
	StageStandings Stage = "STANDINGS" // league table after the round
)

// Stages lists the cycle in order.
var Stages = []Stage{StageAction, StageMatchday, StageHalftime, StageResults, StageStandings}

// NextStage returns the successor of s in the round cycle.
// Anything outside the enum falls back to StageAction so a corrupt row can always recover.
func NextStage(s Stage) Stage {
	switch s {
	case StageAction:
		return StageMatchday
	case StageMatchday:
		return StageHalftime
	case StageHalftime:
		return StageResults
	case StageResults:
		return StageStandings
	case StageStandings:
		return StageAction
	default:
		return StageAction
	}
}

// Valid reports whether s is a member of the stage enum.
func (s Stage) Valid() bool {
	switch s {
	case StageAction, StageMatchday, StageHalftime, StageResults, StageStandings:
		return true
	}
	return false
}

// GameState is the single authoritative progress row of a save game.
type GameState struct {
	ID                int          `json:"id" db:"id"`
	CurrentSaveGameID int          `json:"currentSaveGameId" db:"current_save_game_id"`
	CoachTeamID       *int         `json:"coachTeamId,omitempty" db:"coach_team_id"`
	GameStage         Stage        `json:"gameStage" db:"game_stage"`
	MatchdayType      MatchdayType `json:"matchdayType" db:"matchday_type"`
	CurrentMatchday   int          `json:"currentMatchday" db:"current_matchday"`
	UpdatedAt         time.Time    `json:"updatedAt" db:"updated_at"`
}
