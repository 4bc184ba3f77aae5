package pipeline

import (
	"fmt"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/metrics"
)

// Request is the full configuration of one computation pass. Every table in
// a Result is a pure function of the loaded dataset and the Request.
type Request struct {
	Criteria domain.FilterCriteria `json:"criteria"`

	TimeBucket domain.TimeBucket `json:"time_bucket"`
	Dimension  domain.Dimension  `json:"dimension"`
	TopN       int               `json:"top_n"` // <= 0 keeps every column

	ShowRowTotal bool `json:"show_row_total"`
	ShowColTotal bool `json:"show_col_total"`

	// Metrics lists the pivots to build; empty uses DefaultMetrics.
	Metrics []domain.MetricSpec `json:"metrics"`

	SharesDimension domain.Dimension `json:"shares_dimension"`
	MoversDimension domain.Dimension `json:"movers_dimension"`
	MoversLimit     int              `json:"movers_limit"`
}

// DefaultMetrics are built when a Request names none.
var DefaultMetrics = []domain.MetricSpec{
	domain.AmountMillionWon,
	domain.VolumeTonnes,
	domain.TransactionCount,
}

// DefaultRequest returns a monthly, per-category request with totals.
func DefaultRequest() Request {
	return Request{
		TimeBucket:   domain.BucketYearMonth,
		Dimension:    domain.DimCategory,
		TopN:         metrics.AllN,
		ShowRowTotal: true,
		ShowColTotal: true,
	}
}

// Normalize fills defaults and validates the request.
func (r Request) Normalize() (Request, error) {
	if r.TimeBucket == "" {
		r.TimeBucket = domain.BucketYearMonth
	}
	if r.Dimension == "" {
		r.Dimension = domain.DimCategory
	}
	if r.SharesDimension == "" {
		r.SharesDimension = domain.DimTradeMethodCorrected
	}
	if r.MoversDimension == "" {
		r.MoversDimension = domain.DimItem
	}
	if r.MoversLimit <= 0 {
		r.MoversLimit = metrics.DefaultMoversLimit
	}
	if r.TopN < 0 {
		r.TopN = metrics.AllN
	}
	if len(r.Metrics) == 0 {
		r.Metrics = append([]domain.MetricSpec(nil), DefaultMetrics...)
	}

	if !r.TimeBucket.IsValid() {
		return r, fmt.Errorf("%w: time bucket %q", ErrInvalidRequest, r.TimeBucket)
	}
	for _, d := range []domain.Dimension{r.Dimension, r.SharesDimension, r.MoversDimension} {
		if !d.IsValid() {
			return r, fmt.Errorf("%w: dimension %q", ErrInvalidRequest, d)
		}
	}
	for _, m := range r.Metrics {
		if !m.Metric.IsValid() {
			return r, fmt.Errorf("%w: metric %q", ErrInvalidRequest, m.Metric)
		}
		if m.Divisor < 0 {
			return r, fmt.Errorf("%w: negative divisor for %s", ErrInvalidRequest, m.Metric)
		}
	}
	if c := r.Criteria; c.DateFrom != nil && c.DateTo != nil && c.DateTo.Before(*c.DateFrom) {
		return r, fmt.Errorf("%w: date range ends before it starts", ErrInvalidRequest)
	}
	return r, nil
}
