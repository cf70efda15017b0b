package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/models"
)

type ArchiveRepository interface {
	// ListPending returns matchdays the save game has already moved past and that have no archive row yet.
	ListPending(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Matchday, error)
	Create(ctx context.Context, exec SQLExecutor, archive *models.MatchdayArchive) error
}

type sqlArchiveRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewArchiveRepository(conn *sql.DB, dialect db.Dialect) ArchiveRepository {
	return &sqlArchiveRepository{db: conn, dialect: dialect}
}

func (r *sqlArchiveRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlArchiveRepository) ListPending(ctx context.Context, exec SQLExecutor, limit int) ([]*models.Matchday, error) {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`
		SELECT m.id, m.save_game_id, m.number, m.type, m.round_label
		FROM matchdays m
		JOIN game_states g ON g.current_save_game_id = m.save_game_id
		LEFT JOIN matchday_archives a ON a.matchday_id = m.id
		WHERE a.matchday_id IS NULL AND m.number < g.current_matchday
		ORDER BY m.id ASC
		LIMIT ?`)
	rows, err := executor.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]*models.Matchday, 0)
	for rows.Next() {
		m, errScan := scanMatchday(rows)
		if errScan != nil {
			return nil, errScan
		}
		pending = append(pending, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *sqlArchiveRepository) Create(ctx context.Context, exec SQLExecutor, archive *models.MatchdayArchive) error {
	executor := r.getExecutor(exec)
	if archive.ArchivedAt.IsZero() {
		archive.ArchivedAt = time.Now().UTC()
	}
	query := r.dialect.Rebind(`INSERT INTO matchday_archives (matchday_id, object_key, archived_at) VALUES (?, ?, ?)`)
	_, err := executor.ExecContext(ctx, query, archive.MatchdayID, archive.ObjectKey, archive.ArchivedAt)
	if err != nil && isUniqueViolation(err) {
		return ErrArchiveConflict
	}
	return err
}
