package normalization

import (
	"trade-kpi-lab/internal/domain"
)

// Result is the outcome of normalizing a batch of raw rows.
type Result struct {
	Records []domain.TransactionRecord
	Dropped int            // rows missing ConfirmedDate or ConfirmedAmount
	Rules   map[string]int // seller detail rule name -> records classified by it
}

// Normalize converts raw rows into classified transaction records,
// dropping rows without a confirmed date or amount. Input order is kept.
func Normalize(raw []domain.RawRecord) []domain.TransactionRecord {
	return Run(raw).Records
}

// Run normalizes raw rows and reports drop and classification counts.
func Run(raw []domain.RawRecord) Result {
	res := Result{
		Records: make([]domain.TransactionRecord, 0, len(raw)),
		Rules:   make(map[string]int),
	}
	for _, row := range raw {
		rec, ok := NormalizeRecord(row)
		if !ok {
			res.Dropped++
			continue
		}
		_, ruleName := classify(&rec)
		res.Rules[ruleName]++
		res.Records = append(res.Records, rec)
	}
	return res
}

// NormalizeRecord coerces and classifies one raw row.
// ok is false when ConfirmedDate or ConfirmedAmount is missing after coercion.
func NormalizeRecord(raw domain.RawRecord) (domain.TransactionRecord, bool) {
	date := ToTime(raw[domain.FieldConfirmedDate])
	amount := ToFloat(raw[domain.FieldConfirmedAmount])
	if date == nil || amount == nil {
		return domain.TransactionRecord{}, false
	}

	rec := domain.TransactionRecord{
		ConfirmedDate: *date,

		Category:    reserveLabel(canonical(categoryAliases, ToText(raw[domain.FieldCategory]))),
		SubCategory: reserveLabel(ToText(raw[domain.FieldSubCategory])),
		Item:        reserveLabel(ToText(raw[domain.FieldItem])),
		Seller:      reserveLabel(ToText(raw[domain.FieldSeller])),
		SellerType:  reserveLabel(canonical(sellerTypeAliases, ToText(raw[domain.FieldSellerType]))),
		BuyerType:   reserveLabel(ToText(raw[domain.FieldBuyerType])),
		Buyer:       reserveLabel(ToText(raw[domain.FieldBuyer])),
		TradeType:   codeText(raw[domain.FieldTradeType]),
		TradeMethod: ToText(raw[domain.FieldTradeMethod]),

		OrderedQuantity:    ToFloat(raw[domain.FieldOrderedQuantity]),
		OrderedVolume:      ToFloat(raw[domain.FieldOrderedVolume]),
		OrderedUnitPrice:   ToFloat(raw[domain.FieldOrderedUnitPrice]),
		OrderedAmount:      ToFloat(raw[domain.FieldOrderedAmount]),
		ConfirmedQuantity:  ToFloat(raw[domain.FieldConfirmedQuantity]),
		ConfirmedVolume:    ToFloat(raw[domain.FieldConfirmedVolume]),
		ConfirmedUnitPrice: ToFloat(raw[domain.FieldConfirmedUnitPrice]),
		ConfirmedAmount:    *amount,

		SellerJoinDate: ToTime(raw[domain.FieldSellerJoinDate]),
		BuyerJoinDate:  ToTime(raw[domain.FieldBuyerJoinDate]),
	}

	rec.TradeTypeCorrected = CorrectTradeType(raw[domain.FieldTradeType])
	rec.TradeMethodCorrected = CorrectTradeMethod(rec.TradeMethod)
	rec.SellerDetailType = reserveLabel(ClassifySellerDetail(&rec))
	assignBuckets(&rec)

	return rec, true
}
