package pipeline

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/storage"
	"trade-kpi-lab/internal/storage/memory"
)

// countingSource counts Load calls on a wrapped source.
type countingSource struct {
	storage.RecordSource
	loads atomic.Int32
}

func (c *countingSource) Load(ctx context.Context) ([]domain.RawRecord, error) {
	c.loads.Add(1)
	return c.RecordSource.Load(ctx)
}

func raw(date, category, item, seller, buyer string, amount, volume float64) domain.RawRecord {
	return domain.RawRecord{
		domain.FieldConfirmedDate:   date,
		domain.FieldCategory:        category,
		domain.FieldItem:            item,
		domain.FieldSeller:          seller,
		domain.FieldSellerType:      domain.SellerTypeConsignment,
		domain.FieldBuyer:           buyer,
		domain.FieldBuyerType:       "Restaurant",
		domain.FieldTradeType:       1,
		domain.FieldTradeMethod:     domain.TradeMethodFixedPrice,
		domain.FieldConfirmedAmount: amount,
		domain.FieldConfirmedVolume: volume,
	}
}

func fixtureRows() []domain.RawRecord {
	return []domain.RawRecord{
		raw("2024-01-05", domain.CategoryProduce, "사과", "A농협", "B1", 1_000_000, 100),
		raw("2024-01-09", domain.CategoryGrain, "쌀", "C상사", "B2", 3_000_000, 2000),
		raw("2024-02-03", domain.CategoryProduce, "배", "A농협", "B1", 2_000_000, 300),
		raw("2024-02-14", domain.CategoryGrain, "쌀", "C상사", "B1", 1_000_000, 700),
		raw("2024-03-01", domain.CategoryProduce, "사과", "A농협", "B2", 4_000_000, 400),
		raw("2024-03-02", domain.CategoryFishery, "고등어", "D수협", "B3", 1_500_000, 150),
	}
}

func fixtureSource(t *testing.T) *countingSource {
	t.Helper()
	store := memory.NewRecordStore("pipeline")
	require.NoError(t, store.InsertBulk(context.Background(), fixtureRows()))
	return &countingSource{RecordSource: store}
}
