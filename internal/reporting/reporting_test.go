package reporting

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/drilldown"
	"trade-kpi-lab/internal/pipeline"
	"trade-kpi-lab/internal/storage/memory"
)

var fixedNow = time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

func raw(date, category, item, seller string, amount float64) domain.RawRecord {
	return domain.RawRecord{
		domain.FieldConfirmedDate:   date,
		domain.FieldCategory:        category,
		domain.FieldItem:            item,
		domain.FieldSeller:          seller,
		domain.FieldSellerType:      domain.SellerTypeConsignment,
		domain.FieldBuyer:           "Bistro, Inc",
		domain.FieldBuyerType:       "Restaurant",
		domain.FieldTradeType:       "3",
		domain.FieldTradeMethod:     "정가거래",
		domain.FieldConfirmedAmount: amount,
		domain.FieldConfirmedVolume: amount / 1000,
	}
}

// setupTestData loads a small dataset and runs the default pass over it.
func setupTestData(t *testing.T) (*domain.Dataset, *pipeline.Result, *pipeline.Engine) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewRecordStore("reporting")
	require.NoError(t, store.InsertBulk(ctx, []domain.RawRecord{
		raw("2024-01-10", domain.CategoryProduce, "사과", "A농협", 2_000_000),
		raw("2024-01-12", domain.CategoryGrain, "쌀", "B상사", 1_000_000),
		raw("2024-02-10", domain.CategoryProduce, "사과", "A농협", 3_000_000),
		raw("2024-02-11", domain.CategoryGrain, "쌀", "B상사", 500_000),
	}))

	engine := pipeline.NewEngine(pipeline.DefaultOptions()).WithClock(func() time.Time { return fixedNow })
	ds, err := engine.Load(ctx, store)
	require.NoError(t, err)
	res, err := engine.Run(ctx, pipeline.DefaultRequest())
	require.NoError(t, err)
	return ds, res, engine
}

func TestGenerator_Generate(t *testing.T) {
	ds, res, _ := setupTestData(t)
	r := NewGenerator().WithClock(func() time.Time { return fixedNow }).Generate(ds, res)

	assert.Equal(t, fixedNow, r.GeneratedAt)
	assert.Equal(t, 4, r.Source.Records)
	assert.Equal(t, "2024-01-10", r.Source.FirstDate.Format("2006-01-02"))
	assert.Equal(t, domain.BucketYearMonth, r.Request.TimeBucket)
	require.Len(t, r.Tables, 3)
	assert.Equal(t, domain.MetricAmount, r.Tables[0].Metric.Metric)
	assert.True(t, r.DataQuality.AllChecksPassed)
	assert.Equal(t, 6_500_000.0, r.Overall.TotalAmount)
	assert.Equal(t, "2024", r.YearSummary.Year)
}

func TestRenderMarkdown(t *testing.T) {
	ds, res, _ := setupTestData(t)
	r := NewGenerator().WithClock(func() time.Time { return fixedNow }).Generate(ds, res)
	md := RenderMarkdown(r)

	for _, want := range []string{
		"# Trade KPI Report",
		"Generated: 2024-04-01T09:30:00Z",
		"## Data Quality",
		"**All checks passed.**",
		"## Overall",
		"## Selected Period",
		"## 2024 Summary",
		"Total amount 6500000 over 33 days",
		"| Category | 2024-02 | Change |",
		"| Produce | 3.00 | ▲ +50.0% |",
		"| Grain | 0.50 | ▼ -50.0% |",
		"## Amount (KRW mn)",
		"| Period | Produce | Grain | Total |",
		"| 2024-01 | 2.00 | 1.00 | 3.00 |",
		"| **Total** | 5.00 | 1.50 | 6.50 |",
		"| 2024-01 | 66.7% | 33.3% | 100.0% |",
		"| 2024-02 | ▲ +50.0% | ▼ -50.0% |",
		"## Share Breakdown",
		"| FixedPrice |",
		"2024-02 vs 2024-01",
	} {
		assert.Contains(t, md, want)
	}
}

func TestRenderMarkdown_Deterministic(t *testing.T) {
	ds, res, _ := setupTestData(t)
	g := NewGenerator().WithClock(func() time.Time { return fixedNow })

	first := RenderMarkdown(g.Generate(ds, res))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, RenderMarkdown(g.Generate(ds, res)))
	}
}

func TestRenderMarkdown_InsufficientData(t *testing.T) {
	r := &Report{
		GeneratedAt: fixedNow,
		DataQuality: DataQualitySection{TableErrors: []string{"delta_amount: boom"}},
		Tables: []TableSection{{
			Metric: domain.AmountMillionWon,
			Pivot: &domain.PivotTable{
				RowLabels:    []string{"2024-01"},
				ColumnLabels: []string{"a"},
				Cells:        [][]float64{{1}},
			},
			Delta: &domain.PeriodDeltaTable{DerivedTable: domain.DerivedTable{Status: domain.StatusInsufficientData}},
		}},
	}
	md := RenderMarkdown(r)

	assert.Contains(t, md, "### Failed Tables")
	assert.Contains(t, md, "- delta_amount: boom")
	assert.Contains(t, md, "Insufficient data.")
	assert.Contains(t, md, "No records loaded.")
	assert.Contains(t, md, "No records match the current filters.")
	assert.NotContains(t, md, "projected")
	assert.Contains(t, md, "Fewer than two periods")
}

func TestRenderDrillDownMarkdown(t *testing.T) {
	_, _, engine := setupTestData(t)
	d, err := engine.DrillDown(context.Background(), pipeline.DefaultRequest(),
		drilldown.Selection{Bucket: "2024-02", Category: domain.CategoryProduce}, drilldown.PageRequest{PageSize: 10})
	require.NoError(t, err)

	md := RenderDrillDownMarkdown(d)
	assert.Contains(t, md, "## Drill-down: 2024-02 / Produce")
	assert.Contains(t, md, "| A농협 | ConsignmentSeller | 3000000 | 3000.00 | 1 | Type2 |")
	assert.Contains(t, md, "### Records (page 1 of 1, 1 total)")

	d.NoRecords = true
	assert.Contains(t, RenderDrillDownMarkdown(d), "No records for this selection.")
}

func TestRenderCSV(t *testing.T) {
	p := &domain.PivotTable{
		RowLabels:      []string{"2024-01", domain.TotalLabel},
		ColumnLabels:   []string{"사과, 부사", domain.TotalLabel},
		Cells:          [][]float64{{1.5, 1.5}, {1.5, 1.5}},
		HasTotalRow:    true,
		HasTotalColumn: true,
	}
	out := RenderPivotCSV(p)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `period,"사과, 부사",Total`, lines[0])
	assert.Equal(t, "2024-01,1.500000,1.500000", lines[1])

	v := 25.0
	d := &domain.DerivedTable{
		RowLabels:    []string{"2024-01"},
		ColumnLabels: []string{"a", "b"},
		Cells:        [][]*float64{{nil, &v}},
	}
	assert.Equal(t, "period,a,b\n2024-01,,25.000000\n", RenderDerivedCSV(d))
}

func TestWriteFiles(t *testing.T) {
	ds, res, engine := setupTestData(t)
	r := NewGenerator().WithClock(func() time.Time { return fixedNow }).Generate(ds, res)

	d, err := engine.DrillDown(context.Background(), pipeline.DefaultRequest(),
		drilldown.Selection{Bucket: "2024-01", Category: domain.CategoryGrain}, drilldown.PageRequest{})
	require.NoError(t, err)
	r.DrillDowns = append(r.DrillDowns, d)

	dir := filepath.Join(t.TempDir(), "out")
	written, err := WriteFiles(dir, r)
	require.NoError(t, err)

	var names []string
	for _, p := range written {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{
		"report.md",
		"pivot_amount.csv", "percentage_amount.csv", "delta_amount.csv",
		"pivot_volume.csv", "percentage_volume.csv", "delta_volume.csv",
		"pivot_count.csv", "percentage_count.csv", "delta_count.csv",
		"shares.csv", "movers.csv", "drilldown_1.csv",
	}, names)

	records, err := os.ReadFile(filepath.Join(dir, "drilldown_1.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(records), `"Bistro, Inc"`)
}

func TestTrendMarker(t *testing.T) {
	up, down, zero := 3.0, -1.0, 0.0
	assert.Equal(t, "▲", TrendMarker(&up))
	assert.Equal(t, "▼", TrendMarker(&down))
	assert.Equal(t, "=", TrendMarker(&zero))
	assert.Equal(t, "-", TrendMarker(nil))
}
