package metrics

import (
	"trade-kpi-lab/internal/domain"
)

// AppearedRate is the change rate reported when a value rises from zero.
const AppearedRate = 100.0

// ChangeRate returns the period-over-period change in percent.
// prev == 0 yields 0 when curr is also 0 and AppearedRate otherwise.
func ChangeRate(prev, curr float64) float64 {
	if prev != 0 {
		return (curr - prev) / prev * 100
	}
	if curr == 0 {
		return 0
	}
	return AppearedRate
}

// ToPeriodDelta derives change rates between consecutive pivot rows.
// The Total row is ignored and the first row is undefined. Every later data
// cell is defined, and the Total column, when the pivot has one, is the mean
// over all data columns.
// Fewer than two periods yields an insufficient-data table.
func ToPeriodDelta(p *domain.PivotTable) *domain.PeriodDeltaTable {
	out := &domain.PeriodDeltaTable{}
	if p == nil || p.IsEmpty() {
		out.Status = domain.StatusEmpty
		return out
	}

	rows := p.DataRowCount()
	dataCols := p.DataColumnCount()
	out.RowLabels = append([]string(nil), p.RowLabels[:rows]...)
	out.ColumnLabels = append([]string(nil), p.ColumnLabels...)
	out.HasTotalColumn = p.HasTotalColumn
	out.Cells = make([][]*float64, rows)
	for r := range out.Cells {
		out.Cells[r] = make([]*float64, len(p.ColumnLabels))
	}

	if rows < 2 {
		out.Status = domain.StatusInsufficientData
		return out
	}
	out.Status = domain.StatusOK

	for r := 1; r < rows; r++ {
		var sum float64
		for c := 0; c < dataCols; c++ {
			v := ChangeRate(p.Cells[r-1][c], p.Cells[r][c])
			out.Cells[r][c] = ptr(v)
			sum += v
		}
		if p.HasTotalColumn && dataCols > 0 {
			out.Cells[r][dataCols] = ptr(sum / float64(dataCols))
		}
	}
	return out
}

// Trends classifies every cell of a delta table.
func Trends(t *domain.PeriodDeltaTable) [][]domain.Trend {
	if t == nil {
		return nil
	}
	out := make([][]domain.Trend, len(t.Cells))
	for r, row := range t.Cells {
		out[r] = make([]domain.Trend, len(row))
		for c, v := range row {
			out[r][c] = domain.ClassifyTrend(v)
		}
	}
	return out
}
