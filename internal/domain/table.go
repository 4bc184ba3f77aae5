package domain

// PivotTable is an aggregate table keyed by time-bucket rows and category columns.
// When present, the Total column is the last column and the Total row the last row.
type PivotTable struct {
	Metric     MetricSpec `json:"metric"`
	TimeBucket TimeBucket `json:"time_bucket"`
	Dimension  Dimension  `json:"dimension"`

	RowLabels    []string    `json:"rows"`
	ColumnLabels []string    `json:"columns"`
	Cells        [][]float64 `json:"cells"` // [row][column]

	HasTotalRow    bool `json:"has_total_row"`
	HasTotalColumn bool `json:"has_total_column"`
}

// DataRowCount returns the number of rows excluding the Total row.
func (p *PivotTable) DataRowCount() int {
	if p == nil {
		return 0
	}
	if p.HasTotalRow {
		return len(p.RowLabels) - 1
	}
	return len(p.RowLabels)
}

// DataColumnCount returns the number of columns excluding the Total column.
func (p *PivotTable) DataColumnCount() int {
	if p == nil {
		return 0
	}
	if p.HasTotalColumn {
		return len(p.ColumnLabels) - 1
	}
	return len(p.ColumnLabels)
}

// IsEmpty returns true if the table has no data rows or no data columns.
func (p *PivotTable) IsEmpty() bool {
	return p.DataRowCount() == 0 || p.DataColumnCount() == 0
}

// Cell looks up a cell by labels.
func (p *PivotTable) Cell(row, column string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	ri, ci := indexOf(p.RowLabels, row), indexOf(p.ColumnLabels, column)
	if ri < 0 || ci < 0 {
		return 0, false
	}
	return p.Cells[ri][ci], true
}

// TableStatus reports whether a derived table could be computed.
type TableStatus string

const (
	StatusOK               TableStatus = "ok"
	StatusEmpty            TableStatus = "empty"
	StatusInsufficientData TableStatus = "insufficient_data"
)

// DerivedTable is a labelled table whose cells may be undefined (nil).
type DerivedTable struct {
	RowLabels      []string     `json:"rows"`
	ColumnLabels   []string     `json:"columns"`
	Cells          [][]*float64 `json:"cells"`
	HasTotalColumn bool         `json:"has_total_column"`
	Status         TableStatus  `json:"status"`
}

// Cell looks up a cell by labels. ok is false for unknown labels;
// a known but undefined cell returns (nil, true).
func (t *DerivedTable) Cell(row, column string) (*float64, bool) {
	if t == nil {
		return nil, false
	}
	ri, ci := indexOf(t.RowLabels, row), indexOf(t.ColumnLabels, column)
	if ri < 0 || ci < 0 {
		return nil, false
	}
	return t.Cells[ri][ci], true
}

// PercentageTable holds row-normalized shares of a pivot, in percent.
type PercentageTable struct {
	DerivedTable
}

// PeriodDeltaTable holds period-over-period change rates of a pivot, in percent.
type PeriodDeltaTable struct {
	DerivedTable
}

// Trend classifies a delta cell for presentation.
type Trend string

const (
	TrendNeutral Trend = "neutral" // undefined
	TrendGrowth  Trend = "growth"
	TrendDecline Trend = "decline"
	TrendFlat    Trend = "flat"
)

// ClassifyTrend maps a delta value to its trend marker.
func ClassifyTrend(v *float64) Trend {
	switch {
	case v == nil:
		return TrendNeutral
	case *v > 0:
		return TrendGrowth
	case *v < 0:
		return TrendDecline
	default:
		return TrendFlat
	}
}

// TopNSelection is the ranked list of a dimension's labels.
type TopNSelection struct {
	Dimension Dimension `json:"dimension"`
	Metric    Metric    `json:"metric"`
	N         int       `json:"n"` // <= 0 means all
	Labels    []string  `json:"labels"`
	Totals    []float64 `json:"totals"` // aggregate per label, same order
}

func indexOf(labels []string, s string) int {
	for i, l := range labels {
		if l == s {
			return i
		}
	}
	return -1
}
