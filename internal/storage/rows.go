package storage

import (
	"fmt"
	"strings"

	"trade-kpi-lab/internal/domain"
)

// TransactionsTable is the table database sources read by default.
const TransactionsTable = "trade_transactions"

// DefaultQuery selects every transaction row.
const DefaultQuery = "SELECT * FROM " + TransactionsTable

// ColumnMap resolves result-set columns to canonical field names.
// Columns that match no field map to "" and are skipped.
func ColumnMap(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		if f, ok := domain.CanonicalField(c); ok {
			out[i] = f
		}
	}
	return out
}

// RecordFromRow builds a RawRecord from values aligned with a ColumnMap.
func RecordFromRow(fields []string, values []any) domain.RawRecord {
	rec := make(domain.RawRecord, len(fields))
	for i, f := range fields {
		if f == "" || i >= len(values) {
			continue
		}
		rec[f] = values[i]
	}
	return rec
}

// CheckQuery accepts only a single SELECT (or WITH ... SELECT) statement.
// An empty query falls back to DefaultQuery.
func CheckQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return DefaultQuery, nil
	}
	q = strings.TrimSuffix(q, ";")
	if strings.Contains(q, ";") {
		return "", fmt.Errorf("%w: multiple statements", ErrReadOnlyQuery)
	}
	head := strings.ToUpper(strings.Fields(q)[0])
	if head != "SELECT" && head != "WITH" {
		return "", fmt.Errorf("%w: starts with %s", ErrReadOnlyQuery, head)
	}
	return q, nil
}

// InsertColumns are the TransactionsTable columns written by importers, in
// the order RowValues returns them.
var InsertColumns = []string{
	"confirmed_date", "category", "sub_category", "item",
	"seller", "seller_type", "buyer_type", "buyer",
	"trade_type", "trade_method",
	"ordered_quantity", "ordered_volume", "ordered_unit_price", "ordered_amount",
	"confirmed_quantity", "confirmed_volume", "confirmed_unit_price", "confirmed_amount",
	"seller_join_date", "buyer_join_date",
}

// RowValues returns the source-level fields of r aligned with InsertColumns.
// Derived fields are not stored; they are recomputed on load. Dates are
// time.Time or *time.Time, optional numerics *float64.
func RowValues(r *domain.TransactionRecord) []any {
	return []any{
		r.ConfirmedDate, r.Category, r.SubCategory, r.Item,
		r.Seller, r.SellerType, r.BuyerType, r.Buyer,
		r.TradeType, r.TradeMethod,
		r.OrderedQuantity, r.OrderedVolume, r.OrderedUnitPrice, r.OrderedAmount,
		r.ConfirmedQuantity, r.ConfirmedVolume, r.ConfirmedUnitPrice, r.ConfirmedAmount,
		r.SellerJoinDate, r.BuyerJoinDate,
	}
}
