package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/matchday-engine/db"
)

// TxRunner runs a unit of work inside a single transaction.
type TxRunner interface {
	// RunSerializable commits when fn returns nil and rolls back otherwise.
	RunSerializable(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type sqlTxRunner struct {
	conn    *sql.DB
	dialect db.Dialect
}

func NewTxRunner(conn *sql.DB, dialect db.Dialect) TxRunner {
	return &sqlTxRunner{conn: conn, dialect: dialect}
}

func (r *sqlTxRunner) RunSerializable(ctx context.Context, fn func(exec SQLExecutor) error) (txErr error) {
	tx, err := r.conn.BeginTx(ctx, r.dialect.SerializableTx())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			// Postgres reports serialization failures at commit too; keep the cause wrapped.
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}
