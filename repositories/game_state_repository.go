package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/models"
)

type GameStateRepository interface {
	Create(ctx context.Context, exec SQLExecutor, state *models.GameState) error
	GetBySaveGameID(ctx context.Context, exec SQLExecutor, saveGameID int) (*models.GameState, error)
	// GetCurrent returns the most recently updated game state.
	GetCurrent(ctx context.Context, exec SQLExecutor) (*models.GameState, error)
	UpdateStage(ctx context.Context, exec SQLExecutor, saveGameID int, stage models.Stage) error
	// AdvanceMatchday bumps current_matchday by one and resets the stage to ACTION in a single statement.
	AdvanceMatchday(ctx context.Context, exec SQLExecutor, saveGameID int, nextType *models.MatchdayType) error
}

type sqlGameStateRepository struct {
	db      *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

func NewGameStateRepository(conn *sql.DB, dialect db.Dialect) GameStateRepository {
	return &sqlGameStateRepository{db: conn, dialect: dialect, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func (r *sqlGameStateRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameStateColumns = `id, current_save_game_id, coach_team_id, game_stage, matchday_type, current_matchday, updated_at`

func (r *sqlGameStateRepository) scanGameState(row rowScanner) (*models.GameState, error) {
	var (
		gs    models.GameState
		coach sql.NullInt64
	)
	err := row.Scan(&gs.ID, &gs.CurrentSaveGameID, &coach, &gs.GameStage, &gs.MatchdayType, &gs.CurrentMatchday, &gs.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameStateNotFound
		}
		return nil, err
	}
	gs.CoachTeamID = nullableInt(coach)
	return &gs, nil
}

func (r *sqlGameStateRepository) Create(ctx context.Context, exec SQLExecutor, state *models.GameState) error {
	executor := r.getExecutor(exec)
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = r.now()
	}
	query := r.dialect.Rebind(`
		INSERT INTO game_states (current_save_game_id, coach_team_id, game_stage, matchday_type, current_matchday, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)
	return executor.QueryRowContext(ctx, query,
		state.CurrentSaveGameID, nullInt(state.CoachTeamID), string(state.GameStage), string(state.MatchdayType), state.CurrentMatchday, state.UpdatedAt,
	).Scan(&state.ID)
}

func (r *sqlGameStateRepository) GetBySaveGameID(ctx context.Context, exec SQLExecutor, saveGameID int) (*models.GameState, error) {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`SELECT ` + gameStateColumns + ` FROM game_states WHERE current_save_game_id = ?`)
	return r.scanGameState(executor.QueryRowContext(ctx, query, saveGameID))
}

func (r *sqlGameStateRepository) GetCurrent(ctx context.Context, exec SQLExecutor) (*models.GameState, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gameStateColumns + ` FROM game_states ORDER BY updated_at DESC, id DESC LIMIT 1`
	return r.scanGameState(executor.QueryRowContext(ctx, query))
}

func (r *sqlGameStateRepository) UpdateStage(ctx context.Context, exec SQLExecutor, saveGameID int, stage models.Stage) error {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`UPDATE game_states SET game_stage = ?, updated_at = ? WHERE current_save_game_id = ?`)
	result, err := executor.ExecContext(ctx, query, string(stage), r.now(), saveGameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameStateNotFound)
}

func (r *sqlGameStateRepository) AdvanceMatchday(ctx context.Context, exec SQLExecutor, saveGameID int, nextType *models.MatchdayType) error {
	executor := r.getExecutor(exec)
	var typeArg sql.NullString
	if nextType != nil {
		typeArg = sql.NullString{String: string(*nextType), Valid: true}
	}
	query := r.dialect.Rebind(`
		UPDATE game_states SET
			current_matchday = current_matchday + 1,
			game_stage = ?,
			matchday_type = COALESCE(?, matchday_type),
			updated_at = ?
		WHERE current_save_game_id = ?`)
	result, err := executor.ExecContext(ctx, query, string(models.StageAction), typeArg, r.now(), saveGameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameStateNotFound)
}
