package domain

import (
	"strings"
	"unicode"
)

// sourceHeaders maps the source system's Korean column headers to canonical names.
var sourceHeaders = map[string]string{
	"확정일자":      FieldConfirmedDate,
	"구분":        FieldCategory,
	"부류":        FieldSubCategory,
	"품목":        FieldItem,
	"판매자":       FieldSeller,
	"판매자구분":     FieldSellerType,
	"구매자구분":     FieldBuyerType,
	"구매자":       FieldBuyer,
	"거래유형":      FieldTradeType,
	"거래방식":      FieldTradeMethod,
	"주문수량":      FieldOrderedQuantity,
	"주문물량":      FieldOrderedVolume,
	"주문단가(원)":   FieldOrderedUnitPrice,
	"주문금액(원)":   FieldOrderedAmount,
	"구매확정수량":    FieldConfirmedQuantity,
	"구매확정물량":    FieldConfirmedVolume,
	"구매확정단가(원)": FieldConfirmedUnitPrice,
	"구매확정금액(원)": FieldConfirmedAmount,
	"판매자가입일자":   FieldSellerJoinDate,
	"구매자가입일자":   FieldBuyerJoinDate,
}

var canonicalByFolded = func() map[string]string {
	m := make(map[string]string, len(Fields))
	for _, f := range Fields {
		m[foldName(f)] = f
	}
	return m
}()

// CanonicalField resolves a column header to its canonical field name.
// It accepts canonical names in any case, snake_case and kebab-case
// spellings, and the source system's Korean headers.
func CanonicalField(header string) (string, bool) {
	h := strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	if f, ok := sourceHeaders[strings.ReplaceAll(h, " ", "")]; ok {
		return f, true
	}
	f, ok := canonicalByFolded[foldName(h)]
	return f, ok
}

// foldName lowercases and strips separators: "confirmed_date" -> "confirmeddate".
func foldName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
