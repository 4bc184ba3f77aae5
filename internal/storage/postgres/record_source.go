package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/idhash"
	"trade-kpi-lab/internal/observability"
	"trade-kpi-lab/internal/storage"
)

// RecordSource implements storage.RecordSource using PostgreSQL.
type RecordSource struct {
	pool  *Pool
	dsn   string
	query string
}

// NewRecordSource creates a source running query against pool.
// dsn only contributes to the source identity. An empty query reads the
// whole transactions table.
func NewRecordSource(pool *Pool, dsn, query string) (*RecordSource, error) {
	q, err := storage.CheckQuery(query)
	if err != nil {
		return nil, err
	}
	return &RecordSource{pool: pool, dsn: dsn, query: q}, nil
}

// Compile-time interface check.
var _ storage.RecordSource = (*RecordSource)(nil)

// SourceID implements storage.RecordSource.
func (s *RecordSource) SourceID() string {
	return idhash.ComputeSourceID(s.Kind(), s.dsn, s.query)
}

// Kind implements storage.RecordSource.
func (s *RecordSource) Kind() string {
	return "postgres"
}

// Load runs the query and returns one RawRecord per row.
func (s *RecordSource) Load(ctx context.Context) ([]domain.RawRecord, error) {
	start := time.Now()
	records, err := s.load(ctx)
	observability.RecordDBQuery("postgres", "load", time.Since(start).Seconds(), err)
	return records, err
}

func (s *RecordSource) load(ctx context.Context) ([]domain.RawRecord, error) {
	rows, err := s.pool.Query(ctx, s.query)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("query transactions: %w", storage.ErrNotFound)
		}
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	columns := make([]string, len(descs))
	for i, d := range descs {
		columns[i] = d.Name
	}
	fields := storage.ColumnMap(columns)

	var result []domain.RawRecord
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		for i, v := range values {
			values[i] = plainValue(v)
		}
		result = append(result, storage.RecordFromRow(fields, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// plainValue unwraps pgtype values the normalizer cannot coerce directly.
func plainValue(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case pgtype.Date:
		if !x.Valid {
			return nil
		}
		return x.Time
	case pgtype.Timestamp:
		if !x.Valid {
			return nil
		}
		return x.Time
	}
	return v
}
