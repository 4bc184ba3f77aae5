package domain

import "time"

// FilterCriteria is a conjunction of optional predicates.
// Empty strings and All mean "no constraint"; nil dates are open ends.
type FilterCriteria struct {
	DateFrom *time.Time `json:"date_from,omitempty"` // inclusive, calendar date
	DateTo   *time.Time `json:"date_to,omitempty"`   // inclusive, calendar date

	Category      string   `json:"category,omitempty"`
	ExcludedItems []string `json:"excluded_items,omitempty"`

	SubCategory        string `json:"sub_category,omitempty"`
	Item               string `json:"item,omitempty"`
	SellerType         string `json:"seller_type,omitempty"`
	SellerDetailType   string `json:"seller_detail_type,omitempty"`
	BuyerType          string `json:"buyer_type,omitempty"`
	TradeTypeCorrected string `json:"trade_type,omitempty"`
}

// IsAll reports whether v is the "no constraint" sentinel.
func IsAll(v string) bool {
	return v == "" || v == All
}

// IsUnconstrained returns true if every predicate is at its sentinel.
func (c FilterCriteria) IsUnconstrained() bool {
	return c.DateFrom == nil && c.DateTo == nil &&
		IsAll(c.Category) && len(c.ExcludedItems) == 0 &&
		IsAll(c.SubCategory) && IsAll(c.Item) &&
		IsAll(c.SellerType) && IsAll(c.SellerDetailType) &&
		IsAll(c.BuyerType) && IsAll(c.TradeTypeCorrected)
}
