package domain

import "fmt"

// TimeBucket selects the temporal granularity of a pivot's row axis.
type TimeBucket string

const (
	BucketYear        TimeBucket = "year"
	BucketYearQuarter TimeBucket = "year_quarter"
	BucketYearMonth   TimeBucket = "year_month"
	BucketYearWeek    TimeBucket = "year_week"
)

// TimeBuckets lists all buckets from coarsest to finest.
var TimeBuckets = []TimeBucket{BucketYear, BucketYearQuarter, BucketYearMonth, BucketYearWeek}

// IsValid returns true if b is a known bucket.
func (b TimeBucket) IsValid() bool {
	switch b {
	case BucketYear, BucketYearQuarter, BucketYearMonth, BucketYearWeek:
		return true
	}
	return false
}

// ParseTimeBucket validates a bucket name.
func ParseTimeBucket(s string) (TimeBucket, error) {
	b := TimeBucket(s)
	if !b.IsValid() {
		return "", fmt.Errorf("unknown time bucket %q", s)
	}
	return b, nil
}

// Dimension is a categorical field usable as a pivot column axis.
type Dimension string

const (
	DimCategory             Dimension = "category"
	DimSubCategory          Dimension = "sub_category"
	DimItem                 Dimension = "item"
	DimSeller               Dimension = "seller"
	DimSellerType           Dimension = "seller_type"
	DimSellerDetailType     Dimension = "seller_detail_type"
	DimBuyer                Dimension = "buyer"
	DimBuyerType            Dimension = "buyer_type"
	DimTradeTypeCorrected   Dimension = "trade_type"
	DimTradeMethodCorrected Dimension = "trade_method"
)

// Dimensions lists every supported dimension.
var Dimensions = []Dimension{
	DimCategory, DimSubCategory, DimItem, DimSeller, DimSellerType,
	DimSellerDetailType, DimBuyer, DimBuyerType, DimTradeTypeCorrected, DimTradeMethodCorrected,
}

// IsValid returns true if d is a known dimension.
func (d Dimension) IsValid() bool {
	for _, known := range Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	if !d.IsValid() {
		return "", fmt.Errorf("unknown dimension %q", s)
	}
	return d, nil
}

// Metric is an aggregatable measure of a record.
type Metric string

const (
	MetricAmount Metric = "amount" // sum of ConfirmedAmount
	MetricVolume Metric = "volume" // sum of ConfirmedVolume
	MetricCount  Metric = "count"  // number of records
)

// IsValid returns true if m is a known metric.
func (m Metric) IsValid() bool {
	return m == MetricAmount || m == MetricVolume || m == MetricCount
}

// MetricSpec pairs a metric with the unit conversion applied to its aggregates.
type MetricSpec struct {
	Metric  Metric  `json:"metric"`
	Divisor float64 `json:"divisor"` // 0 or 1 means no conversion
	Unit    string  `json:"unit"`
}

// Scale applies the unit conversion to an aggregate.
func (s MetricSpec) Scale(v float64) float64 {
	if s.Divisor == 0 || s.Divisor == 1 {
		return v
	}
	return v / s.Divisor
}

// Standard metric specs used by reports: amount in millions of won,
// volume in tonnes, plain counts.
var (
	AmountMillionWon = MetricSpec{Metric: MetricAmount, Divisor: 1_000_000, Unit: "KRW mn"}
	VolumeTonnes     = MetricSpec{Metric: MetricVolume, Divisor: 1_000, Unit: "t"}
	TransactionCount = MetricSpec{Metric: MetricCount, Divisor: 1, Unit: "trades"}
)
