package migrations

import (
	"context"
	"fmt"

	"trade-kpi-lab/internal/storage/sqlite"
)

// RunSQLiteMigrations applies all embedded SQL files in lexical order,
// one statement at a time, inside a single transaction.
func RunSQLiteMigrations(ctx context.Context, db *sqlite.DB) error {
	files, contents, err := readMigrations(SQLiteFS, "sqlite")
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, file := range files {
		if err := validateNoSemicolonInStrings(contents[file]); err != nil {
			return fmt.Errorf("validate migration %s: %w", file, err)
		}
		for _, stmt := range splitStatements(contents[file]) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", file, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}
