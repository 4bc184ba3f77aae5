package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"trade-kpi-lab/internal/storage"
)

// DB wraps a database/sql handle opened with the modernc sqlite driver.
type DB struct {
	*sql.DB
	path string
}

// Open opens the database file at path. The file must already exist;
// use OpenOrCreate to start a new one.
func Open(ctx context.Context, path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open sqlite %s: %w", path, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("stat sqlite %s: %w", path, err)
	}
	return OpenOrCreate(ctx, path)
}

// OpenOrCreate opens or creates the database file at path.
func OpenOrCreate(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Verify connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	return &DB{DB: db, path: path}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}
