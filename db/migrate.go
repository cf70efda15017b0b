package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate applies the embedded bootstrap schema for the dialect. Every statement is
// idempotent, so it is safe to run on each startup.
func Migrate(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	if !dialect.Valid() {
		return fmt.Errorf("unsupported database driver %q", dialect)
	}
	schema, err := schemaFS.ReadFile("schema/" + string(dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("read %s schema: %w", dialect, err)
	}
	if _, err := conn.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply %s schema: %w", dialect, err)
	}
	return nil
}
