package models

import "time"

// MatchdayArchive records that a finished matchday's event log was exported.
type MatchdayArchive struct {
	MatchdayID int       `json:"matchdayId" db:"matchday_id"`
	ObjectKey  string    `json:"objectKey" db:"object_key"`
	ArchivedAt time.Time `json:"archivedAt" db:"archived_at"`
}
