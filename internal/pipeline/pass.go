package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/filter"
	"trade-kpi-lab/internal/metrics"
	"trade-kpi-lab/internal/observability"
)

// Compute runs one pass over ds. req must already be normalized.
// Steps:
//  1. Filter the dataset
//  2. Rank the category dimension and restrict to the top N
//  3. Build one pivot per metric
//  4. Derive percentage and period-delta tables per pivot
//  5. Compute overviews, year summary, shares, movers and latest changes
//  6. Check data sufficiency
//
// A failing table is recorded in TableErrors and replaced by an
// insufficient-data table; the remaining tables are still computed.
func Compute(ds *domain.Dataset, req Request, now time.Time) *Result {
	res := &Result{
		PassID:       uuid.New(),
		SourceID:     ds.SourceID(),
		ComputedAt:   now,
		Request:      req,
		TotalRecords: ds.Len(),
		TableErrors:  make(map[string]string),
	}

	// 1. Filter
	records := filter.Apply(ds.Records(), req.Criteria)
	res.FilteredRecords = len(records)

	// 2. Rank
	res.Selection = metrics.Rank(records, domain.MetricAmount, req.Dimension, req.TopN)
	pivotRecords := records
	if req.TopN > 0 {
		pivotRecords = metrics.Restrict(records, req.Dimension, res.Selection.Labels)
	}

	// 3. Pivots
	res.Pivots = make([]*domain.PivotTable, len(req.Metrics))
	res.guard("pivot", func() {
		res.Pivots = metrics.BuildPivots(pivotRecords, metrics.PivotSpec{
			TimeBucket:   req.TimeBucket,
			Dimension:    req.Dimension,
			Metrics:      req.Metrics,
			ColumnOrder:  res.Selection.Labels,
			ShowRowTotal: req.ShowRowTotal,
			ShowColTotal: req.ShowColTotal,
		})
	})
	for i, p := range res.Pivots {
		if p == nil {
			res.Pivots[i] = &domain.PivotTable{Metric: req.Metrics[i], TimeBucket: req.TimeBucket, Dimension: req.Dimension}
		}
	}

	// 4. Derived tables
	res.Percentages = make([]*domain.PercentageTable, len(res.Pivots))
	res.Deltas = make([]*domain.PeriodDeltaTable, len(res.Pivots))
	for i, p := range res.Pivots {
		name := string(req.Metrics[i].Metric)
		res.guard("percentage_"+name, func() {
			res.Percentages[i] = metrics.ToPercentage(p)
		})
		if res.Percentages[i] == nil {
			res.Percentages[i] = &domain.PercentageTable{DerivedTable: insufficient()}
		}
		res.guard("delta_"+name, func() {
			res.Deltas[i] = metrics.ToPeriodDelta(p)
		})
		if res.Deltas[i] == nil {
			res.Deltas[i] = &domain.PeriodDeltaTable{DerivedTable: insufficient()}
		}
	}

	// 5. Insights
	res.guard("overall", func() {
		res.Overall = metrics.ComputeOverview(ds.Records())
	})
	res.guard("overview", func() {
		res.Overview = metrics.ComputeOverview(records)
	})
	res.guard("year_summary", func() {
		res.YearSummary = metrics.ComputeYearSummary(records, req.TimeBucket, amountSpec(req.Metrics))
	})
	res.guard("shares", func() {
		res.Shares = metrics.ComputeShares(records, req.SharesDimension)
	})
	res.guard("movers", func() {
		res.Movers = metrics.ComputeMovers(records, req.TimeBucket, req.MoversDimension, req.MoversLimit)
	})
	if amount := res.Pivot(domain.MetricAmount); amount != nil {
		res.guard("latest", func() {
			res.Latest = metrics.LatestChanges(amount)
		})
	}

	// 6. Sufficiency
	res.Sufficiency = CheckSufficiency(ds, res)

	if len(res.TableErrors) == 0 {
		res.TableErrors = nil
	}
	return res
}

// guard runs fn, converting a panic into a table error.
func (r *Result) guard(table string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.TableErrors[table] = fmt.Sprint(rec)
			observability.RecordTableFailure(table)
		}
	}()
	fn()
}

// amountSpec returns the requested amount metric, so the year summary
// shares the amount pivot's unit.
func amountSpec(specs []domain.MetricSpec) domain.MetricSpec {
	for _, s := range specs {
		if s.Metric == domain.MetricAmount {
			return s
		}
	}
	return domain.AmountMillionWon
}

func insufficient() domain.DerivedTable {
	return domain.DerivedTable{Status: domain.StatusInsufficientData}
}
