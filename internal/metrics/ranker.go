package metrics

import (
	"sort"

	"trade-kpi-lab/internal/domain"
)

// AllN requests every category from Rank.
const AllN = 0

// Rank groups records by dimension, sums metric and returns the labels in
// descending order of their totals. Equal totals keep first-encounter order.
// n <= 0 returns every label; otherwise only the top n. Records with an
// empty label are not ranked.
func Rank(records []domain.TransactionRecord, metric domain.Metric, dim domain.Dimension, n int) domain.TopNSelection {
	labels, sums := groupSums(records, metric, dim)

	idx := make([]int, len(labels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return sums[idx[a]] > sums[idx[b]]
	})

	if n > 0 && n < len(idx) {
		idx = idx[:n]
	}

	sel := domain.TopNSelection{
		Dimension: dim,
		Metric:    metric,
		N:         n,
		Labels:    make([]string, len(idx)),
		Totals:    make([]float64, len(idx)),
	}
	for i, j := range idx {
		sel.Labels[i] = labels[j]
		sel.Totals[i] = sums[j]
	}
	return sel
}

// groupSums returns labels in first-seen order and their metric sums.
func groupSums(records []domain.TransactionRecord, metric domain.Metric, dim domain.Dimension) ([]string, []float64) {
	pos := make(map[string]int)
	var labels []string
	var sums []float64
	for i := range records {
		label := records[i].Label(dim)
		if label == "" {
			continue
		}
		j, ok := pos[label]
		if !ok {
			j = len(labels)
			pos[label] = j
			labels = append(labels, label)
			sums = append(sums, 0)
		}
		if v, ok := records[i].Value(metric); ok {
			sums[j] += v
		}
	}
	return labels, sums
}

// Restrict keeps only records whose dimension label is in labels.
// Order is preserved; the input is not modified.
func Restrict(records []domain.TransactionRecord, dim domain.Dimension, labels []string) []domain.TransactionRecord {
	keep := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		keep[l] = struct{}{}
	}
	out := make([]domain.TransactionRecord, 0, len(records))
	for i := range records {
		if _, ok := keep[records[i].Label(dim)]; ok {
			out = append(out, records[i])
		}
	}
	return out
}
