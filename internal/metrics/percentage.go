package metrics

import (
	"trade-kpi-lab/internal/domain"
)

// ToPercentage normalizes each pivot row to percentages of its data-column
// sum, rounded to one decimal. Rows summing to zero are undefined. When the
// pivot has a Total column it is exactly 100 for defined rows. A Total row,
// if present, is normalized like any other row.
func ToPercentage(p *domain.PivotTable) *domain.PercentageTable {
	out := &domain.PercentageTable{}
	if p == nil || p.IsEmpty() {
		out.Status = domain.StatusEmpty
		return out
	}

	dataCols := p.DataColumnCount()
	out.RowLabels = append([]string(nil), p.RowLabels...)
	out.ColumnLabels = append([]string(nil), p.ColumnLabels...)
	out.HasTotalColumn = p.HasTotalColumn
	out.Status = domain.StatusOK
	out.Cells = make([][]*float64, len(p.RowLabels))

	for r := range p.Cells {
		row := make([]*float64, len(p.ColumnLabels))
		var sum float64
		for c := 0; c < dataCols; c++ {
			sum += p.Cells[r][c]
		}
		if sum != 0 {
			for c := 0; c < dataCols; c++ {
				row[c] = ptr(round1(p.Cells[r][c] / sum * 100))
			}
			if p.HasTotalColumn {
				row[dataCols] = ptr(100.0)
			}
		}
		out.Cells[r] = row
	}
	return out
}
