package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/models"
)

type MatchdayRepository interface {
	Create(ctx context.Context, exec SQLExecutor, matchday *models.Matchday) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Matchday, error)
	GetBySaveGameAndNumber(ctx context.Context, exec SQLExecutor, saveGameID, number int) (*models.Matchday, error)
	// UpdateTypeAndLabel leaves the label untouched when label is nil.
	UpdateTypeAndLabel(ctx context.Context, exec SQLExecutor, id int, matchdayType models.MatchdayType, label *string) error
}

type sqlMatchdayRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewMatchdayRepository(conn *sql.DB, dialect db.Dialect) MatchdayRepository {
	return &sqlMatchdayRepository{db: conn, dialect: dialect}
}

func (r *sqlMatchdayRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanMatchday(row rowScanner) (*models.Matchday, error) {
	var (
		m     models.Matchday
		label sql.NullString
	)
	if err := row.Scan(&m.ID, &m.SaveGameID, &m.Number, &m.Type, &label); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchdayNotFound
		}
		return nil, err
	}
	m.RoundLabel = nullableString(label)
	return &m, nil
}

func (r *sqlMatchdayRepository) Create(ctx context.Context, exec SQLExecutor, matchday *models.Matchday) error {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`
		INSERT INTO matchdays (save_game_id, number, type, round_label)
		VALUES (?, ?, ?, ?)
		RETURNING id`)
	err := executor.QueryRowContext(ctx, query,
		matchday.SaveGameID, matchday.Number, string(matchday.Type), nullString(matchday.RoundLabel),
	).Scan(&matchday.ID)
	if err != nil && isUniqueViolation(err) {
		return ErrMatchdayConflict
	}
	return err
}

func (r *sqlMatchdayRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Matchday, error) {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`SELECT id, save_game_id, number, type, round_label FROM matchdays WHERE id = ?`)
	return scanMatchday(executor.QueryRowContext(ctx, query, id))
}

func (r *sqlMatchdayRepository) GetBySaveGameAndNumber(ctx context.Context, exec SQLExecutor, saveGameID, number int) (*models.Matchday, error) {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`
		SELECT id, save_game_id, number, type, round_label
		FROM matchdays
		WHERE save_game_id = ? AND number = ?`)
	return scanMatchday(executor.QueryRowContext(ctx, query, saveGameID, number))
}

func (r *sqlMatchdayRepository) UpdateTypeAndLabel(ctx context.Context, exec SQLExecutor, id int, matchdayType models.MatchdayType, label *string) error {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`UPDATE matchdays SET type = ?, round_label = COALESCE(?, round_label) WHERE id = ?`)
	result, err := executor.ExecContext(ctx, query, string(matchdayType), nullString(label), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchdayNotFound)
}
