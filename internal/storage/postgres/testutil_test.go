package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL container for testing and creates the schema.
// Returns the DSN and a cleanup function that must be called after tests complete.
func setupTestDB(t *testing.T) (*Pool, string, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err, "failed to create schema")

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, dsn, cleanup
}

// schema mirrors migrations/postgres/001_trade_transactions.sql. The
// migrations package imports this one, so the test cannot use it directly.
const schema = `
CREATE TABLE IF NOT EXISTS trade_transactions (
	id                   BIGSERIAL PRIMARY KEY,
	confirmed_date       DATE,
	category             TEXT,
	sub_category         TEXT,
	item                 TEXT,
	seller               TEXT,
	seller_type          TEXT,
	buyer_type           TEXT,
	buyer                TEXT,
	trade_type           TEXT,
	trade_method         TEXT,
	ordered_quantity     NUMERIC,
	ordered_volume       NUMERIC,
	ordered_unit_price   NUMERIC,
	ordered_amount       NUMERIC,
	confirmed_quantity   NUMERIC,
	confirmed_volume     NUMERIC,
	confirmed_unit_price NUMERIC,
	confirmed_amount     NUMERIC,
	seller_join_date     DATE,
	buyer_join_date      DATE
);
`
