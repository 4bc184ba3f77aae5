package normalization

import (
	"strings"

	"trade-kpi-lab/internal/domain"
)

// rule is one entry of the seller detail decision list.
type rule struct {
	name   string
	match  func(r *domain.TransactionRecord) bool
	result func(r *domain.TransactionRecord) string
}

func fixed(v string) func(*domain.TransactionRecord) string {
	return func(*domain.TransactionRecord) string { return v }
}

func isCropCategory(r *domain.TransactionRecord) bool {
	return r.Category == domain.CategoryProduce || r.Category == domain.CategoryGrain
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// livestockItems is searched in order; the first substring found wins.
var livestockItems = []struct {
	substr string
	detail string
}{
	{"돈육", domain.SellerDetailPork},
	{"한우", domain.SellerDetailBeef},
	{"닭", domain.SellerDetailChicken},
	{"조란", domain.SellerDetailEgg},
	{"알", domain.SellerDetailProcessedLivestock},
}

func livestockDetail(r *domain.TransactionRecord) string {
	for _, li := range livestockItems {
		if strings.Contains(r.Item, li.substr) {
			return li.detail
		}
	}
	return ""
}

// sellerDetailRules is evaluated top to bottom; the first match wins.
// The final rule always matches.
var sellerDetailRules = []rule{
	{
		name: "crop_agricultural_coop",
		match: func(r *domain.TransactionRecord) bool {
			return isCropCategory(r) && r.SellerType == domain.SellerTypeConsignment &&
				r.Seller != "" && containsAny(r.Seller, "농협", "농업협동")
		},
		result: fixed(domain.SellerDetailAgriculturalCoop),
	},
	{
		name: "crop_wholesale",
		match: func(r *domain.TransactionRecord) bool {
			return isCropCategory(r) && r.SellerType == domain.SellerTypeConsignment
		},
		result: fixed(domain.SellerDetailWholesaleCorp),
	},
	{
		name: "crop_direct",
		match: func(r *domain.TransactionRecord) bool {
			return isCropCategory(r) && r.SellerType == domain.SellerTypeDirect
		},
		result: fixed(domain.SellerDetailDirectSeller),
	},
	{
		name: "fishery_coop",
		match: func(r *domain.TransactionRecord) bool {
			return r.Category == domain.CategoryFishery && r.SellerType == domain.SellerTypeConsignment &&
				r.Seller != "" && containsAny(r.Seller, "수협", "수업협동")
		},
		result: fixed(domain.SellerDetailFisheryCoop),
	},
	{
		name: "fishery_wholesale",
		match: func(r *domain.TransactionRecord) bool {
			return r.Category == domain.CategoryFishery && r.SellerType == domain.SellerTypeConsignment
		},
		result: fixed(domain.SellerDetailWholesaleCorp),
	},
	{
		name: "fishery_purchasing",
		match: func(r *domain.TransactionRecord) bool {
			return r.Category == domain.CategoryFishery && r.SellerType == domain.SellerTypePurchasing
		},
		result: fixed(domain.SellerDetailPurchasingSeller),
	},
	{
		name: "fishery_direct",
		match: func(r *domain.TransactionRecord) bool {
			return r.Category == domain.CategoryFishery && r.SellerType == domain.SellerTypeDirect
		},
		result: fixed(domain.SellerDetailDirectSeller),
	},
	{
		name: "livestock_item",
		match: func(r *domain.TransactionRecord) bool {
			return r.Category == domain.CategoryLivestock && livestockDetail(r) != ""
		},
		result: livestockDetail,
	},
	{
		name:   "seller_type_fallback",
		match:  func(*domain.TransactionRecord) bool { return true },
		result: func(r *domain.TransactionRecord) string { return r.SellerType },
	},
}

// ClassifySellerDetail returns the seller detail type of r.
func ClassifySellerDetail(r *domain.TransactionRecord) string {
	v, _ := classify(r)
	return v
}

// classify also reports which rule fired.
func classify(r *domain.TransactionRecord) (string, string) {
	for _, rl := range sellerDetailRules {
		if rl.match(r) {
			return rl.result(r), rl.name
		}
	}
	return r.SellerType, "seller_type_fallback"
}
