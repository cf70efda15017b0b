package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/models"
)

// MatchEventRepository is append-only: events are never updated or deleted.
type MatchEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.MatchEvent, error)
	// ListByMatches reads the events of several matches in one query, ordered by match, minute, id.
	ListByMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]models.MatchEvent, error)
}

type sqlMatchEventRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewMatchEventRepository(conn *sql.DB, dialect db.Dialect) MatchEventRepository {
	return &sqlMatchEventRepository{db: conn, dialect: dialect}
}

func (r *sqlMatchEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchEventColumns = `id, match_id, minute, event_type, description, player_id, created_at`

func (r *sqlMatchEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error {
	executor := r.getExecutor(exec)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	query := r.dialect.Rebind(`
		INSERT INTO match_events (match_id, minute, event_type, description, player_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)
	return executor.QueryRowContext(ctx, query,
		event.MatchID, event.Minute, event.EventType, event.Description, nullInt(event.PlayerID), event.CreatedAt,
	).Scan(&event.ID)
}

func (r *sqlMatchEventRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.MatchEvent, error) {
	query := r.dialect.Rebind(`
		SELECT ` + matchEventColumns + `
		FROM match_events
		WHERE match_id = ?
		ORDER BY minute ASC, id ASC`)
	return r.list(ctx, r.getExecutor(exec), query, matchID)
}

func (r *sqlMatchEventRepository) ListByMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]models.MatchEvent, error) {
	if len(matchIDs) == 0 {
		return []models.MatchEvent{}, nil
	}
	query := r.dialect.Rebind(`
		SELECT ` + matchEventColumns + `
		FROM match_events
		WHERE match_id IN (` + db.Placeholders(len(matchIDs)) + `)
		ORDER BY match_id ASC, minute ASC, id ASC`)
	return r.list(ctx, r.getExecutor(exec), query, intArgs(matchIDs)...)
}

func (r *sqlMatchEventRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.MatchEvent, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.MatchEvent, 0)
	for rows.Next() {
		var (
			e      models.MatchEvent
			player sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.MatchID, &e.Minute, &e.EventType, &e.Description, &player, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.PlayerID = nullableInt(player)
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
