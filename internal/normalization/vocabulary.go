package normalization

import "trade-kpi-lab/internal/domain"

// Source-system labels mapped onto canonical vocabulary.
// Labels not listed pass through verbatim.
var (
	categoryAliases = map[string]string{
		"청과": domain.CategoryProduce,
		"양곡": domain.CategoryGrain,
		"수산": domain.CategoryFishery,
		"축산": domain.CategoryLivestock,
	}

	sellerTypeAliases = map[string]string{
		"위탁판매자": domain.SellerTypeConsignment,
		"직접판매자": domain.SellerTypeDirect,
		"매수판매자": domain.SellerTypePurchasing,
	}

	tradeMethodAliases = map[string]string{
		"정가거래": domain.TradeMethodFixedPrice,
		"간편거래": domain.TradeMethodSimpleTrade,
		"입찰거래": domain.TradeMethodAuction,
		"발주거래": domain.TradeMethodPurchaseOrder,
		"기획전":  domain.TradeMethodPromotion,
		"특화상품": domain.TradeMethodSpecialty,
	}
)

// tradeTypeCodes maps raw trade-type codes to corrected types.
// Codes 2 and 3 are swapped in the source system.
var tradeTypeCodes = map[string]string{
	"1": domain.TradeType1,
	"2": domain.TradeType3,
	"3": domain.TradeType2,
	"4": domain.TradeType4,
	"5": domain.TradeType4,
	"9": domain.TradeType2,
	"":  domain.TradeType2,
}

// tradeMethods maps canonical raw trade methods to corrected methods.
var tradeMethods = map[string]string{
	domain.TradeMethodFixedPrice:    domain.TradeMethodFixedPrice,
	domain.TradeMethodSimpleTrade:   domain.TradeMethodFixedPrice,
	domain.TradeMethodAuction:       domain.TradeMethodAuction,
	domain.TradeMethodPurchaseOrder: domain.TradeMethodPurchaseOrder,
	domain.TradeMethodPromotion:     domain.TradeMethodPromotion,
	domain.TradeMethodSpecialty:     domain.TradeMethodSpecialty,
}

// CorrectTradeType maps a raw trade-type code. Empty, 9 and missing map to
// Type2; codes outside the table are undefined ("").
func CorrectTradeType(raw any) string {
	return tradeTypeCodes[codeText(raw)]
}

// CorrectTradeMethod maps a raw trade method. Unrecognized methods are undefined ("").
func CorrectTradeMethod(raw string) string {
	if alias, ok := tradeMethodAliases[raw]; ok {
		raw = alias
	}
	return tradeMethods[raw]
}

func canonical(aliases map[string]string, v string) string {
	if c, ok := aliases[v]; ok {
		return c
	}
	return v
}

// reserveLabel keeps categorical values from colliding with the Total marker.
func reserveLabel(v string) string {
	if v == domain.TotalLabel {
		return domain.TotalLabel + " (value)"
	}
	return v
}
