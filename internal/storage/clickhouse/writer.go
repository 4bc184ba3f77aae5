package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/storage"
)

// InsertTransactions appends records to the transactions table in one batch.
func (c *Conn) InsertTransactions(ctx context.Context, records []domain.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := c.PrepareBatch(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s)", storage.TransactionsTable, strings.Join(storage.InsertColumns, ", "),
	))
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i := range records {
		if err := batch.Append(storage.RowValues(&records[i])...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
