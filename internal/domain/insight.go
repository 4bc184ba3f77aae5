package domain

import "time"

// Overview holds headline KPIs for a filtered record set.
type Overview struct {
	TotalAmount       float64   `json:"total_amount"`
	TotalVolume       float64   `json:"total_volume"`
	TransactionCount  int       `json:"transaction_count"`
	DistinctItems     int       `json:"distinct_items"`
	DistinctSellers   int       `json:"distinct_sellers"`
	DistinctBuyers    int       `json:"distinct_buyers"`
	TopItem           string    `json:"top_item"`
	TopItemAmount     float64   `json:"top_item_amount"`
	FirstDate         time.Time `json:"first_date"`
	LastDate          time.Time `json:"last_date"`
	CoveredDays       int       `json:"covered_days"`
	DailyAverage      float64   `json:"daily_average"`
	YearEndProjection float64   `json:"year_end_projection"`
}

// Mover is one label's change between the two most recent buckets.
type Mover struct {
	Label      string  `json:"label"`
	Previous   float64 `json:"previous"`
	Current    float64 `json:"current"`
	Change     float64 `json:"change"`
	ChangeRate float64 `json:"change_rate"` // percent, one decimal; 0 when Previous is 0
}

// Movers lists the largest increases and decreases between two buckets.
type Movers struct {
	PreviousBucket string  `json:"previous_bucket"`
	CurrentBucket  string  `json:"current_bucket"`
	Increases      []Mover `json:"increases"`
	Decreases      []Mover `json:"decreases"`
}

// Share is one label's part of a total, in absolute and percentage terms.
type Share struct {
	Label       string  `json:"label"`
	Amount      float64 `json:"amount"`
	Volume      float64 `json:"volume"`
	Count       int     `json:"count"`
	AmountShare float64 `json:"amount_share"`
	VolumeShare float64 `json:"volume_share"`
	CountShare  float64 `json:"count_share"`
}

// LatestChange is one column's value in the last bucket and its change versus the prior bucket.
type LatestChange struct {
	Label      string   `json:"label"`
	Bucket     string   `json:"bucket"`
	Value      float64  `json:"value"`
	ChangeRate *float64 `json:"change_rate,omitempty"` // nil when there is no prior bucket
}

// YearSummary holds headline KPIs and latest-bucket changes per category,
// restricted to the year with the most records.
type YearSummary struct {
	Year     string         `json:"year"`
	Overview Overview       `json:"overview"`
	Latest   []LatestChange `json:"latest"`
}
