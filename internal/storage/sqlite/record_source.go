package sqlite

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/idhash"
	"trade-kpi-lab/internal/observability"
	"trade-kpi-lab/internal/storage"
)

// RecordSource implements storage.RecordSource over a SQLite file.
type RecordSource struct {
	db    *DB
	query string
}

// NewRecordSource creates a source running query against db.
// An empty query reads the whole transactions table.
func NewRecordSource(db *DB, query string) (*RecordSource, error) {
	q, err := storage.CheckQuery(query)
	if err != nil {
		return nil, err
	}
	return &RecordSource{db: db, query: q}, nil
}

// Compile-time interface check.
var _ storage.RecordSource = (*RecordSource)(nil)

// SourceID implements storage.RecordSource. The file's size and
// modification time are part of the identity.
func (s *RecordSource) SourceID() string {
	size, mtime := "", ""
	if fi, err := os.Stat(s.db.Path()); err == nil {
		size = strconv.FormatInt(fi.Size(), 10)
		mtime = strconv.FormatInt(fi.ModTime().UnixNano(), 10)
	}
	return idhash.ComputeSourceID(s.Kind(), s.db.Path(), size, mtime, s.query)
}

// Kind implements storage.RecordSource.
func (s *RecordSource) Kind() string {
	return "sqlite"
}

// Load runs the query and returns one RawRecord per row.
func (s *RecordSource) Load(ctx context.Context) ([]domain.RawRecord, error) {
	start := time.Now()
	records, err := s.load(ctx)
	observability.RecordDBQuery("sqlite", "load", time.Since(start).Seconds(), err)
	return records, err
}

func (s *RecordSource) load(ctx context.Context) ([]domain.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return nil, fmt.Errorf("query transactions: %w", storage.ErrNotFound)
		}
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	fields := storage.ColumnMap(columns)

	var result []domain.RawRecord
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, storage.RecordFromRow(fields, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}
