package postgres

import (
	"context"
	"database/sql"
	_ "embed"

	"rentshare-backend/internal/logger"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.Info("Applying database schema")
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return classify("apply schema", err)
	}
	logger.Info("Database schema applied")
	return nil
}
