package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-kpi-lab/internal/domain"
)

func TestRank_TopN(t *testing.T) {
	sel := Rank(sample(), domain.MetricAmount, domain.DimItem, 2)

	assert.Equal(t, []string{"사과", "쌀"}, sel.Labels)
	assert.Equal(t, []float64{5_000_000, 4_000_000}, sel.Totals)
	assert.Equal(t, 2, sel.N)
}

func TestRank_All(t *testing.T) {
	sel := Rank(sample(), domain.MetricAmount, domain.DimCategory, AllN)

	assert.Equal(t, []string{domain.CategoryProduce, domain.CategoryGrain, domain.CategoryFishery}, sel.Labels)
}

func TestRank_TiesKeepFirstEncounter(t *testing.T) {
	records := []domain.TransactionRecord{
		record(day(2024, 1, 1), domain.CategoryGrain, "b", 10, 0),
		record(day(2024, 1, 1), domain.CategoryGrain, "a", 10, 0),
		record(day(2024, 1, 1), domain.CategoryGrain, "c", 10, 0),
	}

	for i := 0; i < 5; i++ {
		sel := Rank(records, domain.MetricAmount, domain.DimItem, AllN)
		require.Equal(t, []string{"b", "a", "c"}, sel.Labels)
	}
}

func TestRank_SkipsEmptyLabels(t *testing.T) {
	records := []domain.TransactionRecord{
		record(day(2024, 1, 1), domain.CategoryGrain, "", 1000, 0),
		record(day(2024, 1, 1), domain.CategoryGrain, "쌀", 1, 0),
	}
	sel := Rank(records, domain.MetricAmount, domain.DimItem, AllN)
	assert.Equal(t, []string{"쌀"}, sel.Labels)
}

func TestRank_Empty(t *testing.T) {
	sel := Rank(nil, domain.MetricAmount, domain.DimItem, 3)
	assert.Empty(t, sel.Labels)
}

func TestRestrict(t *testing.T) {
	got := Restrict(sample(), domain.DimItem, []string{"쌀"})
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "쌀", r.Item)
	}
}
