package domain

// DrillDownTotals are the top-line metrics of a drill-down subset.
type DrillDownTotals struct {
	Amount          float64 `json:"amount"`
	Volume          float64 `json:"volume"`
	Count           int     `json:"count"`
	DistinctItems   int     `json:"distinct_items"`
	DistinctSellers int     `json:"distinct_sellers"`
	DistinctBuyers  int     `json:"distinct_buyers"`
}

// GroupSummary aggregates a drill-down subset for one seller, buyer or pair.
// Fields not part of the grouping key are empty.
type GroupSummary struct {
	Seller     string  `json:"seller,omitempty"`
	SellerType string  `json:"seller_type,omitempty"`
	Buyer      string  `json:"buyer,omitempty"`
	BuyerType  string  `json:"buyer_type,omitempty"`
	Amount     float64 `json:"amount"`
	Volume     float64 `json:"volume"`
	Count      int     `json:"count"`
	TradeTypes string  `json:"trade_types"` // distinct corrected trade types, ", "-joined
}

// GroupStats summarizes a grouping: how many groups and per-group averages.
type GroupStats struct {
	Groups    int     `json:"groups"`
	AvgAmount float64 `json:"avg_amount"`
	AvgCount  float64 `json:"avg_count"`
}

// RecordPage is one page of drill-down records, newest first.
type RecordPage struct {
	Records      []TransactionRecord `json:"records"`
	Page         int                 `json:"page"` // 1-based
	PageSize     int                 `json:"page_size"`
	TotalPages   int                 `json:"total_pages"`
	TotalRecords int                 `json:"total_records"`
}

// DrillDownResult resolves one pivot cell back to its records.
type DrillDownResult struct {
	TimeBucket TimeBucket `json:"time_bucket"`
	Dimension  Dimension  `json:"dimension"`
	Bucket     string     `json:"bucket"`
	Category   string     `json:"category"`

	// NoRecords is set when nothing matched the selection.
	NoRecords bool `json:"no_records"`

	Totals DrillDownTotals `json:"totals"`

	BySeller []GroupSummary `json:"by_seller"`
	ByBuyer  []GroupSummary `json:"by_buyer"`
	ByPair   []GroupSummary `json:"by_pair"`

	SellerStats GroupStats `json:"seller_stats"`
	BuyerStats  GroupStats `json:"buyer_stats"`
	PairStats   GroupStats `json:"pair_stats"`

	Page RecordPage `json:"page"`
}
