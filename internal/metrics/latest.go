package metrics

import (
	"trade-kpi-lab/internal/domain"
)

// LatestChanges reports, per data column of p, the value in the last data
// row and its change rate versus the row before. Rates follow ChangeRate
// and are nil when p has a single period.
func LatestChanges(p *domain.PivotTable) []domain.LatestChange {
	if p == nil || p.IsEmpty() {
		return nil
	}
	rows := p.DataRowCount()
	last := rows - 1

	out := make([]domain.LatestChange, p.DataColumnCount())
	for c := range out {
		out[c] = domain.LatestChange{
			Label:  p.ColumnLabels[c],
			Bucket: p.RowLabels[last],
			Value:  p.Cells[last][c],
		}
		if rows > 1 {
			out[c].ChangeRate = ptr(round1(ChangeRate(p.Cells[last-1][c], p.Cells[last][c])))
		}
	}
	return out
}
