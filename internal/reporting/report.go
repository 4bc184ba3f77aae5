package reporting

import (
	"time"

	"trade-kpi-lab/internal/domain"
)

// Report is the rendered view of one analysis pass.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	PassID      string

	Source  SourceSummary
	Request RequestSummary

	// Data Quality (sufficiency checks and failed tables)
	DataQuality DataQualitySection

	Overall     domain.Overview // whole dataset
	Overview    domain.Overview // filtered records
	Latest      []domain.LatestChange
	YearSummary domain.YearSummary

	// Tables, one section per metric
	Tables []TableSection

	Shares    []domain.Share
	Movers    domain.Movers
	Selection domain.TopNSelection

	// DrillDowns are optional cell breakdowns appended by the caller.
	DrillDowns []*domain.DrillDownResult
}

// SourceSummary describes the loaded dataset.
type SourceSummary struct {
	SourceID        string
	LoadedAt        time.Time
	Records         int
	Dropped         int
	FilteredRecords int
	FirstDate       time.Time
	LastDate        time.Time
}

// RequestSummary echoes the pass configuration.
type RequestSummary struct {
	TimeBucket domain.TimeBucket
	Dimension  domain.Dimension
	TopN       int
	Filters    []string // "Category=Produce", ...
}

// DataQualitySection contains data sufficiency checks and table errors.
type DataQualitySection struct {
	SufficiencyChecks []SufficiencyCheckRow
	TableErrors       []string
	AllChecksPassed   bool
}

// SufficiencyCheckRow represents one sufficiency criterion.
type SufficiencyCheckRow struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// TableSection groups the pivot of one metric with its derived tables.
type TableSection struct {
	Metric     domain.MetricSpec
	Pivot      *domain.PivotTable
	Percentage *domain.PercentageTable
	Delta      *domain.PeriodDeltaTable
}
