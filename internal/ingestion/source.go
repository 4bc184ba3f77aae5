package ingestion

import (
	"context"
	"fmt"

	"trade-kpi-lab/internal/storage"
	"trade-kpi-lab/internal/storage/clickhouse"
	"trade-kpi-lab/internal/storage/postgres"
	"trade-kpi-lab/internal/storage/sqlite"
)

// Source kinds accepted by Open.
const (
	KindFile       = "file"
	KindCSV        = "csv"
	KindExcel      = "excel"
	KindSQLite     = "sqlite"
	KindPostgres   = "postgres"
	KindClickHouse = "clickhouse"
)

// Kinds lists the source kinds accepted by Open.
var Kinds = []string{KindFile, KindCSV, KindExcel, KindSQLite, KindPostgres, KindClickHouse}

// Spec describes where records come from.
type Spec struct {
	Kind     string
	Path     string // file sources and sqlite
	DSN      string // postgres and clickhouse
	Query    string // database sources; empty reads the transactions table
	Encoding string // csv
	Sheet    string // excel
}

// Open builds the record source described by spec. The returned close
// function releases any connection and is never nil.
func Open(ctx context.Context, spec Spec) (storage.RecordSource, func(), error) {
	noop := func() {}

	switch spec.Kind {
	case KindFile, "":
		enc, err := ParseEncoding(spec.Encoding)
		if err != nil {
			return nil, noop, err
		}
		src, err := NewFileSource(spec.Path, enc)
		if _, ok := src.(*ExcelSource); ok && spec.Sheet != "" {
			src = NewExcelSource(spec.Path, spec.Sheet)
		}
		return src, noop, err

	case KindCSV:
		enc, err := ParseEncoding(spec.Encoding)
		if err != nil {
			return nil, noop, err
		}
		return NewCSVSource(spec.Path, enc), noop, nil

	case KindExcel:
		return NewExcelSource(spec.Path, spec.Sheet), noop, nil

	case KindSQLite:
		db, err := sqlite.Open(ctx, spec.Path)
		if err != nil {
			return nil, noop, err
		}
		src, err := sqlite.NewRecordSource(db, spec.Query)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return src, func() { db.Close() }, nil

	case KindPostgres:
		pool, err := postgres.NewPool(ctx, spec.DSN)
		if err != nil {
			return nil, noop, err
		}
		src, err := postgres.NewRecordSource(pool, spec.DSN, spec.Query)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return src, pool.Close, nil

	case KindClickHouse:
		conn, err := clickhouse.NewConn(ctx, spec.DSN)
		if err != nil {
			return nil, noop, err
		}
		src, err := clickhouse.NewRecordSource(conn, spec.DSN, spec.Query)
		if err != nil {
			conn.Close()
			return nil, noop, err
		}
		return src, func() { conn.Close() }, nil
	}

	return nil, noop, fmt.Errorf("%w: %q", storage.ErrUnsupportedSource, spec.Kind)
}
