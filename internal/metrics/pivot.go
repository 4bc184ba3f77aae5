package metrics

import (
	"sort"

	"trade-kpi-lab/internal/domain"
)

// PivotSpec describes the pivots to build from one record set.
type PivotSpec struct {
	TimeBucket domain.TimeBucket
	Dimension  domain.Dimension
	Metrics    []domain.MetricSpec

	// ColumnOrder fixes the data columns, usually a Rank result.
	// Empty orders columns by descending amount.
	ColumnOrder []string

	ShowRowTotal bool
	ShowColTotal bool
}

// cellKey identifies one (bucket, category) group.
type cellKey struct {
	row int
	col int
}

// BuildPivots builds one PivotTable per metric in spec.Metrics, sharing a
// single grouping pass. All tables have identical row and column labels.
func BuildPivots(records []domain.TransactionRecord, spec PivotSpec) []*domain.PivotTable {
	columns := spec.ColumnOrder
	if len(columns) == 0 {
		columns = Rank(records, domain.MetricAmount, spec.Dimension, AllN).Labels
	}
	columns = cleanColumns(columns)

	colIndex := make(map[string]int, len(columns))
	for i, c := range columns {
		colIndex[c] = i
	}

	// Rows: buckets of contributing records, ascending. Labels are built
	// to sort chronologically.
	rowSet := make(map[string]struct{})
	for i := range records {
		if _, ok := colIndex[records[i].Label(spec.Dimension)]; !ok {
			continue
		}
		if b := records[i].Bucket(spec.TimeBucket); b != "" {
			rowSet[b] = struct{}{}
		}
	}
	rows := make([]string, 0, len(rowSet))
	for b := range rowSet {
		rows = append(rows, b)
	}
	sort.Strings(rows)

	rowIndex := make(map[string]int, len(rows))
	for i, r := range rows {
		rowIndex[r] = i
	}

	// Group sums per metric.
	sums := make([]map[cellKey]float64, len(spec.Metrics))
	for m := range spec.Metrics {
		sums[m] = make(map[cellKey]float64)
	}
	for i := range records {
		col, ok := colIndex[records[i].Label(spec.Dimension)]
		if !ok {
			continue
		}
		row, ok := rowIndex[records[i].Bucket(spec.TimeBucket)]
		if !ok {
			continue
		}
		key := cellKey{row: row, col: col}
		for m, ms := range spec.Metrics {
			if v, ok := records[i].Value(ms.Metric); ok {
				sums[m][key] += v
			}
		}
	}

	tables := make([]*domain.PivotTable, len(spec.Metrics))
	for m, ms := range spec.Metrics {
		t := &domain.PivotTable{
			Metric:     ms,
			TimeBucket: spec.TimeBucket,
			Dimension:  spec.Dimension,
		}
		if len(rows) == 0 || len(columns) == 0 {
			tables[m] = t
			continue
		}

		t.RowLabels = append([]string(nil), rows...)
		t.ColumnLabels = append([]string(nil), columns...)
		t.Cells = make([][]float64, len(rows))
		for r := range rows {
			t.Cells[r] = make([]float64, len(columns))
		}
		// Unit conversion is applied to each group aggregate before totals.
		for key, v := range sums[m] {
			t.Cells[key.row][key.col] = ms.Scale(v)
		}

		if spec.ShowColTotal {
			AppendTotalColumn(t)
		}
		if spec.ShowRowTotal {
			AppendTotalRow(t)
		}
		tables[m] = t
	}
	return tables
}

// BuildPivot builds a single-metric pivot.
func BuildPivot(
	records []domain.TransactionRecord,
	timeBucket domain.TimeBucket,
	dim domain.Dimension,
	metric domain.MetricSpec,
	columnOrder []string,
	showRowTotal bool,
	showColTotal bool,
) *domain.PivotTable {
	return BuildPivots(records, PivotSpec{
		TimeBucket:   timeBucket,
		Dimension:    dim,
		Metrics:      []domain.MetricSpec{metric},
		ColumnOrder:  columnOrder,
		ShowRowTotal: showRowTotal,
		ShowColTotal: showColTotal,
	})[0]
}

// AppendTotalColumn appends a Total column holding each row's sum across
// data columns. It must run before AppendTotalRow.
func AppendTotalColumn(t *domain.PivotTable) {
	if t.HasTotalColumn || t.HasTotalRow {
		return
	}
	for r := range t.Cells {
		var sum float64
		for _, v := range t.Cells[r] {
			sum += v
		}
		t.Cells[r] = append(t.Cells[r], sum)
	}
	t.ColumnLabels = append(t.ColumnLabels, domain.TotalLabel)
	t.HasTotalColumn = true
}

// AppendTotalRow appends a Total row holding each column's sum, including
// the Total column, so the corner cell is the grand total.
func AppendTotalRow(t *domain.PivotTable) {
	if t.HasTotalRow {
		return
	}
	totals := make([]float64, len(t.ColumnLabels))
	for r := range t.Cells {
		for c, v := range t.Cells[r] {
			totals[c] += v
		}
	}
	t.Cells = append(t.Cells, totals)
	t.RowLabels = append(t.RowLabels, domain.TotalLabel)
	t.HasTotalRow = true
}

// WithoutTotalRow returns a copy of t without its Total row.
func WithoutTotalRow(t *domain.PivotTable) *domain.PivotTable {
	cp := *t
	n := t.DataRowCount()
	cp.RowLabels = append([]string(nil), t.RowLabels[:n]...)
	cp.Cells = make([][]float64, n)
	for r := 0; r < n; r++ {
		cp.Cells[r] = append([]float64(nil), t.Cells[r]...)
	}
	cp.HasTotalRow = false
	return &cp
}

// cleanColumns drops empty, reserved and duplicate labels, keeping order.
func cleanColumns(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c == "" || c == domain.TotalLabel {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
