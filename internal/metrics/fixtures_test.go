package metrics

import (
	"time"

	"trade-kpi-lab/internal/domain"
)

func record(date time.Time, category, item string, amount, volume float64) domain.TransactionRecord {
	v := volume
	return domain.TransactionRecord{
		ConfirmedDate:   date,
		Category:        category,
		Item:            item,
		ConfirmedAmount: amount,
		ConfirmedVolume: &v,
		Year:            date.Format("2006"),
		YearMonth:       date.Format("2006-01"),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sample spans three months with a gap for Fishery in February.
func sample() []domain.TransactionRecord {
	return []domain.TransactionRecord{
		record(day(2024, 1, 5), domain.CategoryProduce, "사과", 1_000_000, 100),
		record(day(2024, 1, 9), domain.CategoryGrain, "쌀", 3_000_000, 2000),
		record(day(2024, 1, 20), domain.CategoryFishery, "고등어", 500_000, 50),
		record(day(2024, 2, 3), domain.CategoryProduce, "배", 2_000_000, 300),
		record(day(2024, 2, 14), domain.CategoryGrain, "쌀", 1_000_000, 700),
		record(day(2024, 3, 1), domain.CategoryProduce, "사과", 4_000_000, 400),
		record(day(2024, 3, 2), domain.CategoryFishery, "고등어", 1_500_000, 150),
	}
}
