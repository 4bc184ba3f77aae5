package domain

// Reserved labels.
const (
	// TotalLabel marks the appended total row and total column of a table.
	// Normalization guarantees no categorical value equals it.
	TotalLabel = "Total"

	// All is the filter sentinel meaning "no constraint".
	All = "ALL"
)

// Category values.
const (
	CategoryProduce   = "Produce"
	CategoryGrain     = "Grain"
	CategoryFishery   = "Fishery"
	CategoryLivestock = "Livestock"
)

// Seller type values.
const (
	SellerTypeConsignment = "ConsignmentSeller"
	SellerTypeDirect      = "DirectSeller"
	SellerTypePurchasing  = "PurchasingSeller"
)

// Seller detail type values produced by the classifier.
// Rule 9 falls back to the seller type, so DirectSeller and PurchasingSeller
// share their spelling with the seller type constants.
const (
	SellerDetailAgriculturalCoop   = "AgriculturalCoop"
	SellerDetailWholesaleCorp      = "WholesaleCorp"
	SellerDetailDirectSeller       = SellerTypeDirect
	SellerDetailFisheryCoop        = "FisheryCoop"
	SellerDetailPurchasingSeller   = SellerTypePurchasing
	SellerDetailPork               = "Pork"
	SellerDetailBeef               = "Beef"
	SellerDetailChicken            = "Chicken"
	SellerDetailEgg                = "Egg"
	SellerDetailProcessedLivestock = "ProcessedLivestock"
)

// Corrected trade type values.
const (
	TradeType1 = "Type1"
	TradeType2 = "Type2"
	TradeType3 = "Type3"
	TradeType4 = "Type4"
)

// Trade method values. SimpleTrade only appears on raw records; the
// classifier folds it into FixedPrice.
const (
	TradeMethodFixedPrice    = "FixedPrice"
	TradeMethodSimpleTrade   = "SimpleTrade"
	TradeMethodAuction       = "Auction"
	TradeMethodPurchaseOrder = "PurchaseOrder"
	TradeMethodPromotion     = "Promotion"
	TradeMethodSpecialty     = "Specialty"
)

// RiceItems is the item preset analysts exclude when looking at grain
// without paddy rice.
var RiceItems = []string{"벼", "찰벼"}
