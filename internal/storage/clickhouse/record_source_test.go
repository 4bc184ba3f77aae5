package clickhouse

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-kpi-lab/internal/domain"
)

func TestRecordSource_Load(t *testing.T) {
	conn, dsn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	batch, err := conn.PrepareBatch(ctx, "INSERT INTO trade_transactions (confirmed_date, category, item, seller_type, trade_type, confirmed_volume, confirmed_amount)")
	require.NoError(t, err)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	vol := 12.5
	tradeType := "3"
	require.NoError(t, batch.Append(&day, ptr("청과"), ptr("사과"), ptr("위탁판매자"), &tradeType, &vol, ptr(1000.0)))
	require.NoError(t, batch.Append(&day, ptr("축산"), ptr("한우 등심"), ptr("직접판매자"), nil, nil, ptr(2000.0)))
	require.NoError(t, batch.Send())

	src, err := NewRecordSource(conn, dsn, "SELECT * FROM trade_transactions ORDER BY confirmed_amount")
	require.NoError(t, err)

	rows, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "사과", rows[0][domain.FieldItem])
	assert.Equal(t, 1000.0, rows[0][domain.FieldConfirmedAmount])
	assert.Equal(t, 12.5, rows[0][domain.FieldConfirmedVolume])
	assert.Equal(t, "3", rows[0][domain.FieldTradeType])
	assert.IsType(t, time.Time{}, rows[0][domain.FieldConfirmedDate])

	assert.Nil(t, rows[1][domain.FieldTradeType])
	assert.Nil(t, rows[1][domain.FieldConfirmedVolume])
	assert.Nil(t, rows[1][domain.FieldSeller])
}

func TestParseDSN(t *testing.T) {
	opts, err := parseDSN("clickhouse://user:pw@db.local/analytics")
	require.NoError(t, err)
	assert.Equal(t, []string{"db.local:9000"}, opts.Addr)
	assert.Equal(t, "user", opts.Auth.Username)
	assert.Equal(t, "pw", opts.Auth.Password)
	assert.Equal(t, "analytics", opts.Auth.Database)

	_, err = parseDSN("not a dsn")
	assert.Error(t, err)
}

func TestDeref(t *testing.T) {
	s := "x"
	sp := &s
	var nilp *string

	cases := []struct {
		name string
		in   any
		want any
	}{
		{"value", s, "x"},
		{"pointer", sp, "x"},
		{"double pointer", &sp, "x"},
		{"nil pointer", nilp, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, deref(reflect.ValueOf(tc.in)))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
