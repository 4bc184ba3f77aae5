package clickhouse

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/idhash"
	"trade-kpi-lab/internal/observability"
	"trade-kpi-lab/internal/storage"
)

// RecordSource implements storage.RecordSource using ClickHouse.
type RecordSource struct {
	conn  *Conn
	dsn   string
	query string
}

// NewRecordSource creates a source running query over conn.
// An empty query reads the whole transactions table.
func NewRecordSource(conn *Conn, dsn, query string) (*RecordSource, error) {
	q, err := storage.CheckQuery(query)
	if err != nil {
		return nil, err
	}
	return &RecordSource{conn: conn, dsn: dsn, query: q}, nil
}

// Compile-time interface check.
var _ storage.RecordSource = (*RecordSource)(nil)

// SourceID implements storage.RecordSource.
func (s *RecordSource) SourceID() string {
	return idhash.ComputeSourceID(s.Kind(), s.dsn, s.query)
}

// Kind implements storage.RecordSource.
func (s *RecordSource) Kind() string {
	return "clickhouse"
}

// Load runs the query and returns one RawRecord per row.
func (s *RecordSource) Load(ctx context.Context) ([]domain.RawRecord, error) {
	start := time.Now()
	records, err := s.load(ctx)
	observability.RecordDBQuery("clickhouse", "load", time.Since(start).Seconds(), err)
	return records, err
}

func (s *RecordSource) load(ctx context.Context) ([]domain.RawRecord, error) {
	rows, err := s.conn.Query(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	columnTypes := rows.ColumnTypes()
	fields := storage.ColumnMap(rows.Columns())

	var result []domain.RawRecord
	for rows.Next() {
		// Scan targets follow the driver's column types; Nullable(T) scans into *T.
		dest := make([]any, len(columnTypes))
		for i, ct := range columnTypes {
			dest[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		values := make([]any, len(dest))
		for i, d := range dest {
			values[i] = deref(reflect.ValueOf(d).Elem())
		}
		result = append(result, storage.RecordFromRow(fields, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// deref follows pointers down to a plain value; nil pointers become nil.
func deref(v reflect.Value) any {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
