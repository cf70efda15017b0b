package models

// Match is a single fixture under a matchday. Scores stay nil until the match is played.
type Match struct {
	ID         int  `json:"id" db:"id"`
	MatchdayID int  `json:"matchdayId" db:"matchday_id"`
	HomeTeamID int  `json:"homeTeamId" db:"home_team_id"`
	AwayTeamID int  `json:"awayTeamId" db:"away_team_id"`
	HomeScore  *int `json:"homeScore" db:"home_score"`
	AwayScore  *int `json:"awayScore" db:"away_score"`
}

// Played reports whether both scores have been recorded.
func (m Match) Played() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}
