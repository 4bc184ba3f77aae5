package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/pipeline"
)

// Generator produces reports from pass results.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report from a dataset and a pass computed over it.
func (g *Generator) Generate(ds *domain.Dataset, res *pipeline.Result) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		Overall:     res.Overall,
		Overview:    res.Overview,
		Latest:      res.Latest,
		YearSummary: res.YearSummary,
		Shares:      res.Shares,
		Movers:      res.Movers,
		Selection:   res.Selection,
		PassID:      res.PassID.String(),
	}

	// Source
	first, last, _ := ds.DateRange()
	r.Source = SourceSummary{
		SourceID:        ds.SourceID(),
		LoadedAt:        ds.LoadedAt(),
		Records:         ds.Len(),
		Dropped:         ds.Dropped(),
		FilteredRecords: res.FilteredRecords,
		FirstDate:       first,
		LastDate:        last,
	}

	// Request
	r.Request = RequestSummary{
		TimeBucket: res.Request.TimeBucket,
		Dimension:  res.Request.Dimension,
		TopN:       res.Request.TopN,
		Filters:    describeCriteria(res.Request.Criteria),
	}

	// Data quality
	r.DataQuality = convertToDataQuality(res)

	// Tables
	for i, spec := range res.Request.Metrics {
		if i >= len(res.Pivots) {
			break
		}
		r.Tables = append(r.Tables, TableSection{
			Metric:     spec,
			Pivot:      res.Pivots[i],
			Percentage: res.Percentages[i],
			Delta:      res.Deltas[i],
		})
	}

	return r
}

func convertToDataQuality(res *pipeline.Result) DataQualitySection {
	dq := DataQualitySection{AllChecksPassed: true}
	if res.Sufficiency != nil {
		for _, c := range res.Sufficiency.Checks {
			dq.SufficiencyChecks = append(dq.SufficiencyChecks, SufficiencyCheckRow{
				Name:      c.Name,
				Threshold: c.Threshold,
				Actual:    c.Actual,
				Pass:      c.Pass,
			})
		}
		dq.AllChecksPassed = res.Sufficiency.AllPass
	}

	names := make([]string, 0, len(res.TableErrors))
	for name := range res.TableErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dq.TableErrors = append(dq.TableErrors, fmt.Sprintf("%s: %s", name, res.TableErrors[name]))
	}
	if len(dq.TableErrors) > 0 {
		dq.AllChecksPassed = false
	}
	return dq
}

// describeCriteria lists the active predicates in a fixed order.
func describeCriteria(c domain.FilterCriteria) []string {
	var out []string
	if c.DateFrom != nil {
		out = append(out, "From="+c.DateFrom.Format("2006-01-02"))
	}
	if c.DateTo != nil {
		out = append(out, "To="+c.DateTo.Format("2006-01-02"))
	}
	add := func(name, v string) {
		if !domain.IsAll(v) {
			out = append(out, name+"="+v)
		}
	}
	add("Category", c.Category)
	add("SubCategory", c.SubCategory)
	add("Item", c.Item)
	add("SellerType", c.SellerType)
	add("SellerDetailType", c.SellerDetailType)
	add("BuyerType", c.BuyerType)
	add("TradeType", c.TradeTypeCorrected)
	if len(c.ExcludedItems) > 0 {
		out = append(out, "Excluded="+strings.Join(c.ExcludedItems, "|"))
	}
	return out
}
