package models

import (
	"strconv"
	"time"
)

// DefaultMatchLength is the nominal number of minutes in a match.
const DefaultMatchLength = 90

// MatchEvent is an immutable occurrence within a match.
// Events are ordered by (Minute, ID); ID breaks ties between same-minute events.
type MatchEvent struct {
	ID          int       `json:"id" db:"id"`
	MatchID     int       `json:"matchId" db:"match_id"`
	Minute      int       `json:"minute" db:"minute"`
	EventType   string    `json:"type" db:"event_type"`
	Description string    `json:"description" db:"description"`
	PlayerID    *int      `json:"playerId,omitempty" db:"player_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Less orders events by minute, then by id.
func (e MatchEvent) Less(other MatchEvent) bool {
	if e.Minute != other.Minute {
		return e.Minute < other.Minute
	}
	return e.ID < other.ID
}

// FormatMinute renders a minute for display. Minutes past total are shown as
// injury time, e.g. FormatMinute(93, 90) == "90+3".
func FormatMinute(minute, total int) string {
	if total <= 0 {
		total = DefaultMatchLength
	}
	if minute > total {
		return strconv.Itoa(total) + "+" + strconv.Itoa(minute-total)
	}
	return strconv.Itoa(minute)
}
