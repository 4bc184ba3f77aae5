// Package filter applies FilterCriteria to normalized records.
package filter

import (
	"time"

	"trade-kpi-lab/internal/domain"
)

// Predicate reports whether a record passes one criterion.
type Predicate func(r *domain.TransactionRecord) bool

// Apply returns the records matching every predicate of c, in input order.
// The input slice is never modified; the result is always a new slice.
func Apply(records []domain.TransactionRecord, c domain.FilterCriteria) []domain.TransactionRecord {
	preds := Predicates(c)
	out := make([]domain.TransactionRecord, 0, len(records))
	for i := range records {
		if matchAll(&records[i], preds) {
			out = append(out, records[i])
		}
	}
	return out
}

// Predicates compiles c into its active predicates. Criteria at the
// "ALL" sentinel contribute nothing.
func Predicates(c domain.FilterCriteria) []Predicate {
	var preds []Predicate

	if c.DateFrom != nil {
		from := calendarDay(*c.DateFrom)
		preds = append(preds, func(r *domain.TransactionRecord) bool {
			return !calendarDay(r.ConfirmedDate).Before(from)
		})
	}
	if c.DateTo != nil {
		to := calendarDay(*c.DateTo)
		preds = append(preds, func(r *domain.TransactionRecord) bool {
			return !calendarDay(r.ConfirmedDate).After(to)
		})
	}

	preds = appendEquals(preds, c.Category, func(r *domain.TransactionRecord) string { return r.Category })

	if len(c.ExcludedItems) > 0 {
		excluded := make(map[string]struct{}, len(c.ExcludedItems))
		for _, item := range c.ExcludedItems {
			excluded[item] = struct{}{}
		}
		preds = append(preds, func(r *domain.TransactionRecord) bool {
			_, skip := excluded[r.Item]
			return !skip
		})
	}

	preds = appendEquals(preds, c.SubCategory, func(r *domain.TransactionRecord) string { return r.SubCategory })
	preds = appendEquals(preds, c.Item, func(r *domain.TransactionRecord) string { return r.Item })
	preds = appendEquals(preds, c.SellerType, func(r *domain.TransactionRecord) string { return r.SellerType })
	preds = appendEquals(preds, c.SellerDetailType, func(r *domain.TransactionRecord) string { return r.SellerDetailType })
	preds = appendEquals(preds, c.BuyerType, func(r *domain.TransactionRecord) string { return r.BuyerType })
	preds = appendEquals(preds, c.TradeTypeCorrected, func(r *domain.TransactionRecord) string { return r.TradeTypeCorrected })

	return preds
}

// Matches reports whether r satisfies every criterion of c.
func Matches(r *domain.TransactionRecord, c domain.FilterCriteria) bool {
	return matchAll(r, Predicates(c))
}

func appendEquals(preds []Predicate, want string, field func(*domain.TransactionRecord) string) []Predicate {
	if domain.IsAll(want) {
		return preds
	}
	return append(preds, func(r *domain.TransactionRecord) bool {
		return field(r) == want
	})
}

func matchAll(r *domain.TransactionRecord, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// calendarDay reduces t to its calendar date in its own location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
