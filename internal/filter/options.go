package filter

import (
	"sort"

	"trade-kpi-lab/internal/domain"
)

// Options lists the distinct values of a dimension in first-seen order,
// prefixed with the "ALL" sentinel. Empty values are skipped.
func Options(records []domain.TransactionRecord, d domain.Dimension) []string {
	seen := make(map[string]struct{})
	out := []string{domain.All}
	for i := range records {
		v := records[i].Label(d)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SortedOptions is Options with the values (not the sentinel) sorted.
func SortedOptions(records []domain.TransactionRecord, d domain.Dimension) []string {
	out := Options(records, d)
	sort.Strings(out[1:])
	return out
}
