package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a ClickHouse container and returns a connection.
// Returns the DSN and a cleanup function that must be called when done.
func setupTestDB(t *testing.T) (*Conn, string, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port())

	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)

	require.NoError(t, conn.Exec(ctx, schema))

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, dsn, cleanup
}

// schema mirrors migrations/clickhouse/001_trade_transactions.sql.
const schema = `
CREATE TABLE IF NOT EXISTS trade_transactions (
	confirmed_date       Nullable(Date),
	category             Nullable(String),
	sub_category         Nullable(String),
	item                 Nullable(String),
	seller               Nullable(String),
	seller_type          Nullable(String),
	buyer_type           Nullable(String),
	buyer                Nullable(String),
	trade_type           Nullable(String),
	trade_method         Nullable(String),
	ordered_quantity     Nullable(Float64),
	ordered_volume       Nullable(Float64),
	ordered_unit_price   Nullable(Float64),
	ordered_amount       Nullable(Float64),
	confirmed_quantity   Nullable(Float64),
	confirmed_volume     Nullable(Float64),
	confirmed_unit_price Nullable(Float64),
	confirmed_amount     Nullable(Float64),
	seller_join_date     Nullable(Date),
	buyer_join_date      Nullable(Date)
) ENGINE = MergeTree
ORDER BY tuple()
`
