package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/storage"
)

// InsertTransactions bulk-loads records into the transactions table with
// COPY. The table must exist (see migrations.RunPostgresMigrations).
func (p *Pool) InsertTransactions(ctx context.Context, records []domain.TransactionRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	n, err := p.CopyFrom(ctx,
		pgx.Identifier{storage.TransactionsTable},
		storage.InsertColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return storage.RowValues(&records[i]), nil
		}),
	)
	if err != nil {
		if isUndefinedTableError(err) {
			return 0, fmt.Errorf("copy transactions: %w", storage.ErrNotFound)
		}
		return 0, fmt.Errorf("copy transactions: %w", err)
	}
	return n, nil
}
