// Package main imports a trade export file into a database table that the
// sqlite, postgres and clickhouse sources read.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/ingestion"
	"trade-kpi-lab/internal/logger"
	"trade-kpi-lab/internal/normalization"
	"trade-kpi-lab/internal/storage/migrations"
	"trade-kpi-lab/internal/storage/postgres"
	"trade-kpi-lab/internal/storage/sqlite"
)

func main() {
	// Database DSNs default to env vars
	path := flag.String("path", "", "Export file to import (.csv, .txt, .xlsx, .xlsm)")
	encoding := flag.String("encoding", "", "Text encoding for CSV files (auto, utf-8, euc-kr, latin-1)")
	sheet := flag.String("sheet", "", "Worksheet name for Excel files (default: first sheet)")
	target := flag.String("target", "sqlite", "Target database (sqlite, postgres, clickhouse)")
	sqlitePath := flag.String("sqlite-path", "trades.db", "SQLite database file, created if missing")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	log := logger.New(*logLevel, "console")

	if *path == "" {
		log.Fatal().Msg("--path is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, closeSrc, err := ingestion.Open(ctx, ingestion.Spec{
		Kind:     ingestion.KindFile,
		Path:     *path,
		Encoding: *encoding,
		Sheet:    *sheet,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", *path).Msg("open export file")
	}
	defer closeSrc()

	// Rows missing a date or amount are not imported.
	ds, err := normalization.NewRunner(src).WithLogger(log).Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load export file")
	}
	records := ds.Records()

	switch *target {
	case "sqlite":
		err = importSQLite(ctx, *sqlitePath, records)
	case "postgres":
		err = importPostgres(ctx, *postgresDSN, records)
	case "clickhouse":
		err = importClickhouse(ctx, *clickhouseDSN, records)
	default:
		err = fmt.Errorf("unknown target %q", *target)
	}
	if err != nil {
		log.Fatal().Err(err).Str("target", *target).Msg("import failed")
	}

	log.Info().
		Str("target", *target).
		Int("imported", len(records)).
		Int("dropped", ds.Dropped()).
		Msg("import complete")
}

func importSQLite(ctx context.Context, path string, records []domain.TransactionRecord) error {
	db, err := sqlite.OpenOrCreate(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return db.InsertTransactions(ctx, records)
}

func importPostgres(ctx context.Context, dsn string, records []domain.TransactionRecord) error {
	if dsn == "" {
		return fmt.Errorf("--postgres-dsn is required")
	}
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	_, err = pool.InsertTransactions(ctx, records)
	return err
}

func importClickhouse(ctx context.Context, dsn string, records []domain.TransactionRecord) error {
	if dsn == "" {
		return fmt.Errorf("--clickhouse-dsn is required")
	}
	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer conn.Close()

	return conn.InsertTransactions(ctx, records)
}
