package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-kpi-lab/internal/domain"
)

func TestColumnMap(t *testing.T) {
	fields := ColumnMap([]string{"confirmed_date", "구매확정금액(원)", "ITEM", "ignored_col"})
	assert.Equal(t, []string{domain.FieldConfirmedDate, domain.FieldConfirmedAmount, domain.FieldItem, ""}, fields)

	rec := RecordFromRow(fields, []any{"2024-03-01", 1000.0, "사과", "x"})
	assert.Len(t, rec, 3)
	assert.Equal(t, "사과", rec[domain.FieldItem])
	assert.NotContains(t, rec, "")
}

func TestCheckQuery(t *testing.T) {
	q, err := CheckQuery("")
	require.NoError(t, err)
	assert.Equal(t, DefaultQuery, q)

	q, err = CheckQuery("  select * from trade_transactions where category = 'Produce';")
	require.NoError(t, err)
	assert.Equal(t, "select * from trade_transactions where category = 'Produce'", q)

	_, err = CheckQuery("WITH t AS (SELECT 1) SELECT * FROM t")
	assert.NoError(t, err)

	for _, bad := range []string{
		"DELETE FROM trade_transactions",
		"SELECT 1; DROP TABLE trade_transactions",
	} {
		_, err := CheckQuery(bad)
		assert.True(t, errors.Is(err, ErrReadOnlyQuery), bad)
	}
}
