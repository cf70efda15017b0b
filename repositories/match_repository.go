package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/models"
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByMatchday(ctx context.Context, exec SQLExecutor, matchdayID int) ([]*models.Match, error)
}

type sqlMatchRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewMatchRepository(conn *sql.DB, dialect db.Dialect) MatchRepository {
	return &sqlMatchRepository{db: conn, dialect: dialect}
}

func (r *sqlMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m          models.Match
		home, away sql.NullInt64
	)
	if err := row.Scan(&m.ID, &m.MatchdayID, &m.HomeTeamID, &m.AwayTeamID, &home, &away); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	m.HomeScore = nullableInt(home)
	m.AwayScore = nullableInt(away)
	return &m, nil
}

func (r *sqlMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`
		INSERT INTO matches (matchday_id, home_team_id, away_team_id, home_score, away_score)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)
	return executor.QueryRowContext(ctx, query,
		match.MatchdayID, match.HomeTeamID, match.AwayTeamID, nullInt(match.HomeScore), nullInt(match.AwayScore),
	).Scan(&match.ID)
}

func (r *sqlMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`
		SELECT id, matchday_id, home_team_id, away_team_id, home_score, away_score
		FROM matches WHERE id = ?`)
	return scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *sqlMatchRepository) ListByMatchday(ctx context.Context, exec SQLExecutor, matchdayID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`
		SELECT id, matchday_id, home_team_id, away_team_id, home_score, away_score
		FROM matches
		WHERE matchday_id = ?
		ORDER BY id ASC`)
	rows, err := executor.QueryContext(ctx, query, matchdayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, errScan := scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
