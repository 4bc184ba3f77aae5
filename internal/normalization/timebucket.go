package normalization

import (
	"fmt"
	"time"

	"trade-kpi-lab/internal/domain"
)

// YearLabel formats t as "2024".
func YearLabel(t time.Time) string {
	return fmt.Sprintf("%04d", t.Year())
}

// QuarterLabel formats t as "2024-Q1".
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
}

// MonthLabel formats t as "2024-03".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// WeekLabel formats t as its ISO week, "2024-W09". The ISO year is used so
// that late-December days in week 1 sort after the previous year's weeks.
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// BucketLabel formats t for the given bucket.
func BucketLabel(t time.Time, b domain.TimeBucket) string {
	switch b {
	case domain.BucketYear:
		return YearLabel(t)
	case domain.BucketYearQuarter:
		return QuarterLabel(t)
	case domain.BucketYearMonth:
		return MonthLabel(t)
	case domain.BucketYearWeek:
		return WeekLabel(t)
	}
	return ""
}

func assignBuckets(r *domain.TransactionRecord) {
	r.Year = YearLabel(r.ConfirmedDate)
	r.YearQuarter = QuarterLabel(r.ConfirmedDate)
	r.YearMonth = MonthLabel(r.ConfirmedDate)
	r.YearWeek = WeekLabel(r.ConfirmedDate)
}
