package domain

import "time"

// Canonical field names a loader must supply on each RawRecord.
const (
	FieldConfirmedDate      = "ConfirmedDate"
	FieldCategory           = "Category"
	FieldSubCategory        = "SubCategory"
	FieldItem               = "Item"
	FieldSeller             = "Seller"
	FieldSellerType         = "SellerType"
	FieldBuyerType          = "BuyerType"
	FieldBuyer              = "Buyer"
	FieldTradeType          = "TradeType"
	FieldTradeMethod        = "TradeMethod"
	FieldOrderedQuantity    = "OrderedQuantity"
	FieldOrderedVolume      = "OrderedVolume"
	FieldOrderedUnitPrice   = "OrderedUnitPrice"
	FieldOrderedAmount      = "OrderedAmount"
	FieldConfirmedQuantity  = "ConfirmedQuantity"
	FieldConfirmedVolume    = "ConfirmedVolume"
	FieldConfirmedUnitPrice = "ConfirmedUnitPrice"
	FieldConfirmedAmount    = "ConfirmedAmount"
	FieldSellerJoinDate     = "SellerJoinDate"
	FieldBuyerJoinDate      = "BuyerJoinDate"
)

// Fields lists the canonical field names in source-table order.
var Fields = []string{
	FieldConfirmedDate, FieldCategory, FieldSubCategory, FieldItem,
	FieldSeller, FieldSellerType, FieldBuyerType, FieldBuyer,
	FieldTradeType, FieldTradeMethod,
	FieldOrderedQuantity, FieldOrderedVolume, FieldOrderedUnitPrice, FieldOrderedAmount,
	FieldConfirmedQuantity, FieldConfirmedVolume, FieldConfirmedUnitPrice, FieldConfirmedAmount,
	FieldSellerJoinDate, FieldBuyerJoinDate,
}

// RawRecord is one decoded row keyed by canonical field name.
// Values are whatever the loader produced: strings, numbers, times or nil.
type RawRecord map[string]any

// TransactionRecord represents one confirmed trade line after normalization.
type TransactionRecord struct {
	ConfirmedDate time.Time `json:"confirmed_date"`

	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Item        string `json:"item"`
	Seller      string `json:"seller"`
	SellerType  string `json:"seller_type"`
	BuyerType   string `json:"buyer_type"`
	Buyer       string `json:"buyer"`
	TradeType   string `json:"trade_type_raw"`   // raw code as text, "" if missing
	TradeMethod string `json:"trade_method_raw"` // raw label

	OrderedQuantity    *float64 `json:"ordered_quantity,omitempty"`
	OrderedVolume      *float64 `json:"ordered_volume,omitempty"`
	OrderedUnitPrice   *float64 `json:"ordered_unit_price,omitempty"`
	OrderedAmount      *float64 `json:"ordered_amount,omitempty"`
	ConfirmedQuantity  *float64 `json:"confirmed_quantity,omitempty"`
	ConfirmedVolume    *float64 `json:"confirmed_volume,omitempty"`
	ConfirmedUnitPrice *float64 `json:"confirmed_unit_price,omitempty"`
	ConfirmedAmount    float64  `json:"confirmed_amount"`

	SellerJoinDate *time.Time `json:"seller_join_date,omitempty"`
	BuyerJoinDate  *time.Time `json:"buyer_join_date,omitempty"`

	// Derived by the classifier. Empty string means undefined.
	TradeTypeCorrected   string `json:"trade_type"`
	TradeMethodCorrected string `json:"trade_method"`
	SellerDetailType     string `json:"seller_detail_type"`

	// Time bucket labels, lexicographically monotonic.
	Year        string `json:"year"`         // 2024
	YearQuarter string `json:"year_quarter"` // 2024-Q1
	YearMonth   string `json:"year_month"`   // 2024-03
	YearWeek    string `json:"year_week"`    // 2024-W09
}

// Bucket returns the record's label for the given time bucket.
func (r *TransactionRecord) Bucket(b TimeBucket) string {
	switch b {
	case BucketYear:
		return r.Year
	case BucketYearQuarter:
		return r.YearQuarter
	case BucketYearMonth:
		return r.YearMonth
	case BucketYearWeek:
		return r.YearWeek
	}
	return ""
}

// Label returns the record's value for the given dimension.
func (r *TransactionRecord) Label(d Dimension) string {
	switch d {
	case DimCategory:
		return r.Category
	case DimSubCategory:
		return r.SubCategory
	case DimItem:
		return r.Item
	case DimSeller:
		return r.Seller
	case DimSellerType:
		return r.SellerType
	case DimSellerDetailType:
		return r.SellerDetailType
	case DimBuyer:
		return r.Buyer
	case DimBuyerType:
		return r.BuyerType
	case DimTradeTypeCorrected:
		return r.TradeTypeCorrected
	case DimTradeMethodCorrected:
		return r.TradeMethodCorrected
	}
	return ""
}

// Value returns the record's contribution to metric m.
// Missing volumes contribute nothing (ok=false).
func (r *TransactionRecord) Value(m Metric) (float64, bool) {
	switch m {
	case MetricAmount:
		return r.ConfirmedAmount, true
	case MetricVolume:
		if r.ConfirmedVolume == nil {
			return 0, false
		}
		return *r.ConfirmedVolume, true
	case MetricCount:
		return 1, true
	}
	return 0, false
}

// VolumeOrZero returns ConfirmedVolume, treating missing as zero.
func (r *TransactionRecord) VolumeOrZero() float64 {
	if r.ConfirmedVolume == nil {
		return 0
	}
	return *r.ConfirmedVolume
}
