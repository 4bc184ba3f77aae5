package reporting

import (
	"encoding/csv"
	"fmt"
	"strings"

	"trade-kpi-lab/internal/domain"
)

// RenderPivotCSV renders a pivot as CSV: a period column followed by one
// column per pivot column.
func RenderPivotCSV(p *domain.PivotTable) string {
	return renderGrid(p.RowLabels, p.ColumnLabels, func(r, c int) string {
		return fmt.Sprintf("%.6f", p.Cells[r][c])
	})
}

// RenderDerivedCSV renders a percentage or delta table. Undefined cells
// are empty.
func RenderDerivedCSV(t *domain.DerivedTable) string {
	return renderGrid(t.RowLabels, t.ColumnLabels, func(r, c int) string {
		if v := t.Cells[r][c]; v != nil {
			return fmt.Sprintf("%.6f", *v)
		}
		return ""
	})
}

// RenderSharesCSV renders a share breakdown.
func RenderSharesCSV(shares []domain.Share) string {
	rows := [][]string{{"label", "amount", "amount_share", "volume", "volume_share", "count", "count_share"}}
	for _, s := range shares {
		rows = append(rows, []string{
			s.Label,
			fmt.Sprintf("%.6f", s.Amount),
			fmt.Sprintf("%.1f", s.AmountShare),
			fmt.Sprintf("%.6f", s.Volume),
			fmt.Sprintf("%.1f", s.VolumeShare),
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.1f", s.CountShare),
		})
	}
	return writeAll(rows)
}

// RenderMoversCSV renders increases then decreases, tagged by direction.
func RenderMoversCSV(m domain.Movers) string {
	rows := [][]string{{"direction", "label", "previous_bucket", "current_bucket", "previous", "current", "change", "change_rate"}}
	add := func(dir string, movers []domain.Mover) {
		for _, mv := range movers {
			rows = append(rows, []string{
				dir, mv.Label, m.PreviousBucket, m.CurrentBucket,
				fmt.Sprintf("%.6f", mv.Previous),
				fmt.Sprintf("%.6f", mv.Current),
				fmt.Sprintf("%.6f", mv.Change),
				fmt.Sprintf("%.1f", mv.ChangeRate),
			})
		}
	}
	add("increase", m.Increases)
	add("decrease", m.Decreases)
	return writeAll(rows)
}

// RenderRecordsCSV renders transaction records with canonical column names.
func RenderRecordsCSV(records []domain.TransactionRecord) string {
	rows := [][]string{{
		"confirmed_date", "category", "sub_category", "item",
		"seller", "seller_type", "seller_detail_type", "buyer", "buyer_type",
		"trade_type", "trade_method", "confirmed_volume", "confirmed_amount",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.ConfirmedDate.Format("2006-01-02"),
			r.Category, r.SubCategory, r.Item,
			r.Seller, r.SellerType, r.SellerDetailType, r.Buyer, r.BuyerType,
			r.TradeTypeCorrected, r.TradeMethodCorrected,
			optional(r.ConfirmedVolume),
			fmt.Sprintf("%.0f", r.ConfirmedAmount),
		})
	}
	return writeAll(rows)
}

func renderGrid(rows, cols []string, cell func(r, c int) string) string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, append([]string{"period"}, cols...))
	for r, label := range rows {
		line := make([]string, 0, len(cols)+1)
		line = append(line, label)
		for c := range cols {
			line = append(line, cell(r, c))
		}
		out = append(out, line)
	}
	return writeAll(out)
}

func writeAll(rows [][]string) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	// Writes to a strings.Builder cannot fail.
	_ = w.WriteAll(rows)
	return sb.String()
}
