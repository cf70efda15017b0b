package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/matchday-engine/db"
	"github.com/Dosada05/matchday-engine/models"
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Team, error)
}

type sqlTeamRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewTeamRepository(conn *sql.DB, dialect db.Dialect) TeamRepository {
	return &sqlTeamRepository{db: conn, dialect: dialect}
}

func (r *sqlTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *sqlTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`
		INSERT INTO teams (save_game_id, name, primary_color, secondary_color)
		VALUES (?, ?, ?, ?)
		RETURNING id`)
	return executor.QueryRowContext(ctx, query, team.SaveGameID, team.Name, team.PrimaryColor, team.SecondaryColor).Scan(&team.ID)
}

func (r *sqlTeamRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	executor := r.getExecutor(exec)
	query := r.dialect.Rebind(`
		SELECT id, save_game_id, name, primary_color, secondary_color
		FROM teams
		WHERE id IN (` + db.Placeholders(len(ids)) + `)
		ORDER BY id ASC`)
	rows, err := executor.QueryContext(ctx, query, intArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0, len(ids))
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.SaveGameID, &t.Name, &t.PrimaryColor, &t.SecondaryColor); err != nil {
			return nil, err
		}
		teams = append(teams, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}
