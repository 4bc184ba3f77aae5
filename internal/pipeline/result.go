package pipeline

import (
	"time"

	"github.com/google/uuid"

	"trade-kpi-lab/internal/domain"
)

// Result is the immutable output of one pass. Pivots, Percentages, Deltas
// and Request.Metrics share an index.
type Result struct {
	PassID     uuid.UUID `json:"pass_id"`
	SourceID   string    `json:"source_id"`
	ComputedAt time.Time `json:"computed_at"`
	Request    Request   `json:"request"`

	TotalRecords    int `json:"total_records"`
	FilteredRecords int `json:"filtered_records"`

	Selection   domain.TopNSelection       `json:"selection"`
	Pivots      []*domain.PivotTable       `json:"pivots"`
	Percentages []*domain.PercentageTable  `json:"percentages"`
	Deltas      []*domain.PeriodDeltaTable `json:"deltas"`
	Latest      []domain.LatestChange      `json:"latest"`

	// Overall covers the whole dataset; Overview and the tables above
	// cover the filtered records.
	Overall     domain.Overview    `json:"overall"`
	Overview    domain.Overview    `json:"overview"`
	YearSummary domain.YearSummary `json:"year_summary"`
	Shares      []domain.Share     `json:"shares"`
	Movers      domain.Movers      `json:"movers"`

	Sufficiency *SufficiencyResult `json:"sufficiency"`

	// TableErrors maps a failed table name to its error. Failed tables are
	// present with an insufficient-data status.
	TableErrors map[string]string `json:"table_errors,omitempty"`
}

// Pivot returns the pivot for metric m, or nil.
func (r *Result) Pivot(m domain.Metric) *domain.PivotTable {
	i := r.metricIndex(m)
	if i < 0 {
		return nil
	}
	return r.Pivots[i]
}

// Percentage returns the percentage table for metric m, or nil.
func (r *Result) Percentage(m domain.Metric) *domain.PercentageTable {
	i := r.metricIndex(m)
	if i < 0 {
		return nil
	}
	return r.Percentages[i]
}

// Delta returns the period-delta table for metric m, or nil.
func (r *Result) Delta(m domain.Metric) *domain.PeriodDeltaTable {
	i := r.metricIndex(m)
	if i < 0 {
		return nil
	}
	return r.Deltas[i]
}

func (r *Result) metricIndex(m domain.Metric) int {
	if r == nil {
		return -1
	}
	for i, spec := range r.Request.Metrics {
		if spec.Metric == m && i < len(r.Pivots) {
			return i
		}
	}
	return -1
}
