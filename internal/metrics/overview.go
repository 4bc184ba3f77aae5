package metrics

import (
	"time"

	"trade-kpi-lab/internal/domain"
)

// ComputeOverview returns headline KPIs for records. An empty input yields
// the zero Overview.
func ComputeOverview(records []domain.TransactionRecord) domain.Overview {
	var ov domain.Overview
	if len(records) == 0 {
		return ov
	}

	items := make(map[string]struct{})
	sellers := make(map[string]struct{})
	buyers := make(map[string]struct{})

	for i := range records {
		r := &records[i]
		ov.TotalAmount += r.ConfirmedAmount
		ov.TotalVolume += r.VolumeOrZero()
		ov.TransactionCount++
		if r.Item != "" {
			items[r.Item] = struct{}{}
		}
		if r.Seller != "" {
			sellers[r.Seller] = struct{}{}
		}
		if r.Buyer != "" {
			buyers[r.Buyer] = struct{}{}
		}
		if ov.FirstDate.IsZero() || r.ConfirmedDate.Before(ov.FirstDate) {
			ov.FirstDate = r.ConfirmedDate
		}
		if r.ConfirmedDate.After(ov.LastDate) {
			ov.LastDate = r.ConfirmedDate
		}
	}
	ov.DistinctItems = len(items)
	ov.DistinctSellers = len(sellers)
	ov.DistinctBuyers = len(buyers)

	if top := Rank(records, domain.MetricAmount, domain.DimItem, 1); len(top.Labels) == 1 {
		ov.TopItem = top.Labels[0]
		ov.TopItemAmount = top.Totals[0]
	}

	first := calendarDay(ov.FirstDate)
	last := calendarDay(ov.LastDate)
	ov.CoveredDays = daysBetween(first, last) + 1
	ov.DailyAverage = ov.TotalAmount / float64(ov.CoveredDays)

	yearEnd := time.Date(last.Year(), time.December, 31, 0, 0, 0, 0, last.Location())
	remaining := daysBetween(last, yearEnd)
	if remaining < 0 {
		remaining = 0
	}
	ov.YearEndProjection = ov.TotalAmount + ov.DailyAverage*float64(remaining)
	return ov
}

// DominantYear returns the most frequent Year label, preferring the later
// year on ties. Empty when records is empty.
func DominantYear(records []domain.TransactionRecord) string {
	counts := make(map[string]int)
	var best string
	for i := range records {
		y := records[i].Year
		if y == "" {
			continue
		}
		counts[y]++
		if counts[y] > counts[best] || (counts[y] == counts[best] && y > best) {
			best = y
		}
	}
	return best
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysBetween(a, b time.Time) int {
	// Calendar dates in UTC avoid DST-shortened days.
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
