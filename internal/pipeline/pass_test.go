package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/normalization"
)

func loadFixture(t *testing.T) *domain.Dataset {
	t.Helper()
	ds, err := normalization.NewRunner(fixtureSource(t)).Load(context.Background())
	require.NoError(t, err)
	return ds
}

func normalized(t *testing.T, req Request) Request {
	t.Helper()
	req, err := req.Normalize()
	require.NoError(t, err)
	return req
}

func TestCompute_Tables(t *testing.T) {
	ds := loadFixture(t)
	res := Compute(ds, normalized(t, DefaultRequest()), fixedNow)

	assert.Equal(t, 6, res.FilteredRecords)
	assert.Nil(t, res.TableErrors)
	require.Len(t, res.Pivots, 3)
	require.Len(t, res.Percentages, 3)
	require.Len(t, res.Deltas, 3)

	amount := res.Pivot(domain.MetricAmount)
	require.NotNil(t, amount)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", domain.TotalLabel}, amount.RowLabels)
	v, _ := amount.Cell(domain.TotalLabel, domain.TotalLabel)
	assert.InDelta(t, 12.5, v, 1e-9)

	delta := res.Delta(domain.MetricAmount)
	assert.Equal(t, domain.StatusOK, delta.Status)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, delta.RowLabels)

	count := res.Pivot(domain.MetricCount)
	v, _ = count.Cell("2024-01", domain.TotalLabel)
	assert.Equal(t, 2.0, v)

	assert.Equal(t, 12_500_000.0, res.Overview.TotalAmount)
	require.Len(t, res.Shares, 1)
	assert.Equal(t, domain.TradeMethodFixedPrice, res.Shares[0].Label)
	assert.Equal(t, "2024-03", res.Movers.CurrentBucket)
	assert.Len(t, res.Latest, 3)
	assert.True(t, res.Sufficiency.AllPass)
}

func TestCompute_OverallAndYearSummary(t *testing.T) {
	ds := loadFixture(t)
	req := DefaultRequest()
	req.Criteria.Category = domain.CategoryProduce

	res := Compute(ds, normalized(t, req), fixedNow)

	// Overall ignores the filters.
	assert.Equal(t, 12_500_000.0, res.Overall.TotalAmount)
	assert.Equal(t, 6, res.Overall.TransactionCount)
	assert.Equal(t, 7_000_000.0, res.Overview.TotalAmount)

	assert.Equal(t, "2024", res.YearSummary.Year)
	assert.Equal(t, 7_000_000.0, res.YearSummary.Overview.TotalAmount)
	require.Len(t, res.YearSummary.Latest, 1)
	lc := res.YearSummary.Latest[0]
	assert.Equal(t, domain.CategoryProduce, lc.Label)
	assert.Equal(t, "2024-03", lc.Bucket)
	assert.InDelta(t, 4.0, lc.Value, 1e-9) // KRW mn
	require.NotNil(t, lc.ChangeRate)
	assert.Equal(t, 100.0, *lc.ChangeRate)
}

func TestCompute_Deterministic(t *testing.T) {
	ds := loadFixture(t)
	req := normalized(t, DefaultRequest())

	first := Compute(ds, req, fixedNow)
	for i := 0; i < 5; i++ {
		again := Compute(ds, req, fixedNow)
		assert.Equal(t, first.Pivots, again.Pivots)
		assert.Equal(t, first.Percentages, again.Percentages)
		assert.Equal(t, first.Deltas, again.Deltas)
	}
}

func TestCompute_SinglePeriod(t *testing.T) {
	ds := loadFixture(t)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	req := DefaultRequest()
	req.Criteria.DateFrom = &from

	res := Compute(ds, normalized(t, req), fixedNow)

	assert.Equal(t, domain.StatusInsufficientData, res.Delta(domain.MetricAmount).Status)
	assert.Equal(t, domain.StatusOK, res.Percentage(domain.MetricAmount).Status)
	assert.False(t, res.Sufficiency.AllPass)
}

func TestCompute_EmptyDataset(t *testing.T) {
	ds := domain.NewDataset("empty", nil, 0, fixedNow)
	res := Compute(ds, normalized(t, DefaultRequest()), fixedNow)

	assert.Equal(t, 0, res.FilteredRecords)
	for i := range res.Pivots {
		assert.True(t, res.Pivots[i].IsEmpty())
		assert.Equal(t, domain.StatusEmpty, res.Percentages[i].Status)
		assert.Equal(t, domain.StatusEmpty, res.Deltas[i].Status)
	}
	assert.Empty(t, res.Latest)
	assert.False(t, res.Sufficiency.AllPass)
}

func TestResult_Guard(t *testing.T) {
	res := &Result{TableErrors: map[string]string{}}
	res.guard("broken", func() { panic("boom") })
	res.guard("fine", func() {})

	assert.Equal(t, map[string]string{"broken": "boom"}, res.TableErrors)
}

func TestRequest_Normalize(t *testing.T) {
	req, err := Request{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, domain.BucketYearMonth, req.TimeBucket)
	assert.Equal(t, domain.DimCategory, req.Dimension)
	assert.Equal(t, domain.DimTradeMethodCorrected, req.SharesDimension)
	assert.Len(t, req.Metrics, 3)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err = Request{Criteria: domain.FilterCriteria{DateFrom: &from, DateTo: &to}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = Request{Metrics: []domain.MetricSpec{{Metric: "weight"}}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
