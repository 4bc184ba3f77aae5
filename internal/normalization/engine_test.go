package normalization

import (
	"testing"
	"time"

	"trade-kpi-lab/internal/domain"
)

func makeRaw(date any, amount any) domain.RawRecord {
	return domain.RawRecord{
		domain.FieldConfirmedDate:   date,
		domain.FieldConfirmedAmount: amount,
		domain.FieldCategory:        "청과",
		domain.FieldItem:            "사과",
		domain.FieldSeller:          "A농협",
		domain.FieldSellerType:      "위탁판매자",
		domain.FieldTradeType:       1,
		domain.FieldTradeMethod:     "정가거래",
	}
}

func TestRun_DropsIncompleteRecords(t *testing.T) {
	raw := []domain.RawRecord{
		makeRaw("2024-03-01", 1000),
		makeRaw(nil, 1000),
		makeRaw("2024-03-02", "n/a"),
		makeRaw("garbage", 500),
		makeRaw("2024-03-03", "2,000"),
		{},
	}

	res := Run(raw)
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if res.Dropped != 4 {
		t.Errorf("expected 4 dropped, got %d", res.Dropped)
	}
	// Order preserved.
	if res.Records[0].ConfirmedAmount != 1000 || res.Records[1].ConfirmedAmount != 2000 {
		t.Errorf("unexpected order: %v, %v", res.Records[0].ConfirmedAmount, res.Records[1].ConfirmedAmount)
	}
	if res.Rules["crop_agricultural_coop"] != 2 {
		t.Errorf("expected 2 coop classifications, got %v", res.Rules)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestNormalizeRecord_Aliases(t *testing.T) {
	rec, ok := NormalizeRecord(makeRaw("2024-03-01", 1000))
	if !ok {
		t.Fatal("record should be kept")
	}
	if rec.Category != domain.CategoryProduce {
		t.Errorf("Category = %q, want %q", rec.Category, domain.CategoryProduce)
	}
	if rec.SellerType != domain.SellerTypeConsignment {
		t.Errorf("SellerType = %q, want %q", rec.SellerType, domain.SellerTypeConsignment)
	}
	if rec.SellerDetailType != domain.SellerDetailAgriculturalCoop {
		t.Errorf("SellerDetailType = %q, want %q", rec.SellerDetailType, domain.SellerDetailAgriculturalCoop)
	}
	if rec.TradeTypeCorrected != domain.TradeType1 {
		t.Errorf("TradeTypeCorrected = %q", rec.TradeTypeCorrected)
	}
	if rec.TradeMethodCorrected != domain.TradeMethodFixedPrice {
		t.Errorf("TradeMethodCorrected = %q", rec.TradeMethodCorrected)
	}
}

func TestNormalizeRecord_ClassificationExample(t *testing.T) {
	raw := domain.RawRecord{
		domain.FieldConfirmedDate:   "2024-03-01",
		domain.FieldConfirmedAmount: 1,
		domain.FieldCategory:        domain.CategoryProduce,
		domain.FieldSellerType:      domain.SellerTypeConsignment,
		domain.FieldSeller:          "A농협",
	}
	rec, _ := NormalizeRecord(raw)
	if rec.SellerDetailType != domain.SellerDetailAgriculturalCoop {
		t.Errorf("A농협: got %q", rec.SellerDetailType)
	}

	raw[domain.FieldSeller] = "A상사"
	rec, _ = NormalizeRecord(raw)
	if rec.SellerDetailType != domain.SellerDetailWholesaleCorp {
		t.Errorf("A상사: got %q", rec.SellerDetailType)
	}
}

func TestCorrectTradeType(t *testing.T) {
	tests := []struct {
		raw  any
		want string
	}{
		{1, domain.TradeType1},
		{2, domain.TradeType3},
		{3, domain.TradeType2},
		{4, domain.TradeType4},
		{5, domain.TradeType4},
		{9, domain.TradeType2},
		{"", domain.TradeType2},
		{nil, domain.TradeType2},
		{"2", domain.TradeType3},
		{2.0, domain.TradeType3},
		{"nan", domain.TradeType2},
		{7, ""},
		{"x", ""},
	}
	for _, tt := range tests {
		if got := CorrectTradeType(tt.raw); got != tt.want {
			t.Errorf("CorrectTradeType(%v) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCorrectTradeMethod(t *testing.T) {
	tests := map[string]string{
		domain.TradeMethodFixedPrice:    domain.TradeMethodFixedPrice,
		domain.TradeMethodSimpleTrade:   domain.TradeMethodFixedPrice,
		domain.TradeMethodAuction:       domain.TradeMethodAuction,
		domain.TradeMethodPurchaseOrder: domain.TradeMethodPurchaseOrder,
		domain.TradeMethodPromotion:     domain.TradeMethodPromotion,
		domain.TradeMethodSpecialty:     domain.TradeMethodSpecialty,
		"간편거래":                          domain.TradeMethodFixedPrice,
		"입찰거래":                          domain.TradeMethodAuction,
		"특화상품":                          domain.TradeMethodSpecialty,
		"경매":                            "",
		"":                              "",
	}
	for raw, want := range tests {
		if got := CorrectTradeMethod(raw); got != want {
			t.Errorf("CorrectTradeMethod(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeRecord_ReservesTotalLabel(t *testing.T) {
	raw := makeRaw("2024-03-01", 1)
	raw[domain.FieldItem] = domain.TotalLabel
	raw[domain.FieldBuyer] = domain.TotalLabel

	rec, _ := NormalizeRecord(raw)
	if rec.Item == domain.TotalLabel || rec.Buyer == domain.TotalLabel {
		t.Errorf("categorical value collides with total label: item=%q buyer=%q", rec.Item, rec.Buyer)
	}
}

func TestNormalizeRecord_Buckets(t *testing.T) {
	tests := []struct {
		date    string
		year    string
		quarter string
		month   string
		week    string
	}{
		{"2024-03-05", "2024", "2024-Q1", "2024-03", "2024-W10"},
		{"2024-12-30", "2024", "2024-Q4", "2024-12", "2025-W01"},
		{"2021-01-03", "2021", "2021-Q1", "2021-01", "2020-W53"},
		{"2023-07-01", "2023", "2023-Q3", "2023-07", "2023-W26"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			rec, ok := NormalizeRecord(makeRaw(tt.date, 1))
			if !ok {
				t.Fatal("record dropped")
			}
			if rec.Year != tt.year || rec.YearQuarter != tt.quarter || rec.YearMonth != tt.month || rec.YearWeek != tt.week {
				t.Errorf("buckets = %s %s %s %s, want %s %s %s %s",
					rec.Year, rec.YearQuarter, rec.YearMonth, rec.YearWeek,
					tt.year, tt.quarter, tt.month, tt.week)
			}
		})
	}
}

func TestWeekLabel_SortsChronologically(t *testing.T) {
	start := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	prev := WeekLabel(start)
	for d := 1; d < 120; d++ {
		cur := WeekLabel(start.AddDate(0, 0, d))
		if cur < prev {
			t.Fatalf("week label went backwards: %s after %s", cur, prev)
		}
		prev = cur
	}
}

func TestNormalizeRecord_OptionalFields(t *testing.T) {
	raw := makeRaw("2024-03-01", 1000)
	raw[domain.FieldConfirmedVolume] = "12.5"
	raw[domain.FieldOrderedAmount] = "bad"
	raw[domain.FieldSellerJoinDate] = "2020-01-15"
	raw[domain.FieldBuyerJoinDate] = "?"

	rec, _ := NormalizeRecord(raw)
	if rec.ConfirmedVolume == nil || *rec.ConfirmedVolume != 12.5 {
		t.Errorf("ConfirmedVolume = %v", rec.ConfirmedVolume)
	}
	if rec.OrderedAmount != nil {
		t.Errorf("OrderedAmount should be nil, got %v", *rec.OrderedAmount)
	}
	if rec.SellerJoinDate == nil || rec.SellerJoinDate.Year() != 2020 {
		t.Errorf("SellerJoinDate = %v", rec.SellerJoinDate)
	}
	if rec.BuyerJoinDate != nil {
		t.Errorf("BuyerJoinDate should be nil")
	}
}
