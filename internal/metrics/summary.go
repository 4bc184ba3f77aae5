package metrics

import (
	"trade-kpi-lab/internal/domain"
)

// ComputeYearSummary scopes the overview to DominantYear(records) and
// reports each category's amount in that year's last bucket. amount sets
// the unit of the reported values.
func ComputeYearSummary(records []domain.TransactionRecord, bucket domain.TimeBucket, amount domain.MetricSpec) domain.YearSummary {
	year := DominantYear(records)
	if year == "" {
		return domain.YearSummary{}
	}

	scoped := make([]domain.TransactionRecord, 0, len(records))
	for i := range records {
		if records[i].Year == year {
			scoped = append(scoped, records[i])
		}
	}

	p := BuildPivot(scoped, bucket, domain.DimCategory, amount, nil, false, false)
	return domain.YearSummary{
		Year:     year,
		Overview: ComputeOverview(scoped),
		Latest:   LatestChanges(p),
	}
}
