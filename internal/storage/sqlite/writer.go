package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/storage"
)

// InsertTransactions appends records to the transactions table in one
// transaction. Dates are stored as YYYY-MM-DD text.
func (d *DB) InsertTransactions(ctx context.Context, records []domain.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(storage.InsertColumns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		storage.TransactionsTable, strings.Join(storage.InsertColumns, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		values := storage.RowValues(&records[i])
		for j, v := range values {
			values[j] = dateText(v)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func dateText(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.Format("2006-01-02")
	case *float64:
		if t == nil {
			return nil
		}
		return *t
	}
	return v
}
