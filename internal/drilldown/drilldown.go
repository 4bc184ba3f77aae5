// Package drilldown resolves a single pivot cell back to the records that
// produced it, with seller, buyer and pair breakdowns and a paged record list.
package drilldown

import (
	"errors"
	"sort"
	"strings"

	"trade-kpi-lab/internal/domain"
)

var (
	// ErrAggregateSelection is returned when the Total row or column is selected.
	ErrAggregateSelection = errors.New("drill-down on an aggregate total is not defined")
	// ErrEmptySelection is returned when the bucket or category is missing.
	ErrEmptySelection = errors.New("drill-down selection requires a bucket and a category")
	// ErrInvalidSelection is returned for unknown time buckets or dimensions.
	ErrInvalidSelection = errors.New("invalid drill-down selection")
)

// Selection identifies one pivot cell.
type Selection struct {
	TimeBucket domain.TimeBucket `json:"time_bucket"`
	Dimension  domain.Dimension  `json:"dimension"`
	Bucket     string            `json:"bucket"`
	Category   string            `json:"category"`
}

// Validate checks the selection without looking at any records.
func (s Selection) Validate() error {
	if !s.TimeBucket.IsValid() || !s.Dimension.IsValid() {
		return ErrInvalidSelection
	}
	if s.Bucket == "" || s.Category == "" {
		return ErrEmptySelection
	}
	if s.Bucket == domain.TotalLabel || s.Category == domain.TotalLabel {
		return ErrAggregateSelection
	}
	return nil
}

// Matches reports whether r falls in the selected cell.
func (s Selection) Matches(r *domain.TransactionRecord) bool {
	return r.Bucket(s.TimeBucket) == s.Bucket && r.Label(s.Dimension) == s.Category
}

// Resolve filters records to the selected cell and summarizes them.
// An empty subset is not an error: the result has NoRecords set.
func Resolve(records []domain.TransactionRecord, sel Selection, page PageRequest) (*domain.DrillDownResult, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	subset := make([]domain.TransactionRecord, 0)
	for i := range records {
		if sel.Matches(&records[i]) {
			subset = append(subset, records[i])
		}
	}

	res := &domain.DrillDownResult{
		TimeBucket: sel.TimeBucket,
		Dimension:  sel.Dimension,
		Bucket:     sel.Bucket,
		Category:   sel.Category,
		NoRecords:  len(subset) == 0,
	}

	res.Totals = totals(subset)
	res.BySeller = summarize(subset, sellerKey)
	res.ByBuyer = summarize(subset, buyerKey)
	res.ByPair = summarize(subset, pairKey)
	res.SellerStats = stats(res.BySeller)
	res.BuyerStats = stats(res.ByBuyer)
	res.PairStats = stats(res.ByPair)

	// Newest first; equal dates keep input order.
	sort.SliceStable(subset, func(a, b int) bool {
		return subset[a].ConfirmedDate.After(subset[b].ConfirmedDate)
	})
	res.Page = Paginate(subset, page)

	return res, nil
}

func totals(records []domain.TransactionRecord) domain.DrillDownTotals {
	var t domain.DrillDownTotals
	items := make(map[string]struct{})
	sellers := make(map[string]struct{})
	buyers := make(map[string]struct{})
	for i := range records {
		t.Amount += records[i].ConfirmedAmount
		t.Volume += records[i].VolumeOrZero()
		t.Count++
		if v := records[i].Item; v != "" {
			items[v] = struct{}{}
		}
		if v := records[i].Seller; v != "" {
			sellers[v] = struct{}{}
		}
		if v := records[i].Buyer; v != "" {
			buyers[v] = struct{}{}
		}
	}
	t.DistinctItems = len(items)
	t.DistinctSellers = len(sellers)
	t.DistinctBuyers = len(buyers)
	return t
}

// groupKey extracts a grouping key; ok=false skips the record.
type groupKey func(r *domain.TransactionRecord) (domain.GroupSummary, bool)

func sellerKey(r *domain.TransactionRecord) (domain.GroupSummary, bool) {
	return domain.GroupSummary{Seller: r.Seller, SellerType: r.SellerType}, r.Seller != ""
}

func buyerKey(r *domain.TransactionRecord) (domain.GroupSummary, bool) {
	return domain.GroupSummary{Buyer: r.Buyer, BuyerType: r.BuyerType}, r.Buyer != ""
}

func pairKey(r *domain.TransactionRecord) (domain.GroupSummary, bool) {
	return domain.GroupSummary{
		Seller:     r.Seller,
		SellerType: r.SellerType,
		Buyer:      r.Buyer,
		BuyerType:  r.BuyerType,
	}, r.Seller != "" && r.Buyer != ""
}

func summarize(records []domain.TransactionRecord, key groupKey) []domain.GroupSummary {
	pos := make(map[domain.GroupSummary]int)
	var groups []domain.GroupSummary
	var types []map[string]struct{}

	for i := range records {
		k, ok := key(&records[i])
		if !ok {
			continue
		}
		j, seen := pos[k]
		if !seen {
			j = len(groups)
			pos[k] = j
			groups = append(groups, k)
			types = append(types, make(map[string]struct{}))
		}
		groups[j].Amount += records[i].ConfirmedAmount
		groups[j].Volume += records[i].VolumeOrZero()
		groups[j].Count++
		if tt := records[i].TradeTypeCorrected; tt != "" {
			types[j][tt] = struct{}{}
		}
	}

	for j := range groups {
		groups[j].TradeTypes = joinSorted(types[j])
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Amount > groups[b].Amount
	})
	if groups == nil {
		groups = []domain.GroupSummary{}
	}
	return groups
}

func stats(groups []domain.GroupSummary) domain.GroupStats {
	s := domain.GroupStats{Groups: len(groups)}
	if len(groups) == 0 {
		return s
	}
	var amount float64
	var count int
	for _, g := range groups {
		amount += g.Amount
		count += g.Count
	}
	s.AvgAmount = amount / float64(len(groups))
	s.AvgCount = float64(count) / float64(len(groups))
	return s
}

func joinSorted(set map[string]struct{}) string {
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return strings.Join(vals, ", ")
}
