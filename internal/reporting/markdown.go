package reporting

import (
	"fmt"
	"strings"
	"time"

	"trade-kpi-lab/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Trade KPI Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.PassID != "" {
		sb.WriteString(fmt.Sprintf("Pass: `%s`\n\n", r.PassID))
	}

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Source | `%s` |\n", r.Source.SourceID))
	sb.WriteString(fmt.Sprintf("| Loaded At | %s |\n", formatDate(r.Source.LoadedAt, time.RFC3339)))
	sb.WriteString(fmt.Sprintf("| Records | %d |\n", r.Source.Records))
	sb.WriteString(fmt.Sprintf("| Dropped Rows | %d |\n", r.Source.Dropped))
	sb.WriteString(fmt.Sprintf("| Filtered Records | %d |\n", r.Source.FilteredRecords))
	sb.WriteString(fmt.Sprintf("| First Date | %s |\n", formatDate(r.Source.FirstDate, "2006-01-02")))
	sb.WriteString(fmt.Sprintf("| Last Date | %s |\n", formatDate(r.Source.LastDate, "2006-01-02")))
	sb.WriteString(fmt.Sprintf("| Time Bucket | %s |\n", r.Request.TimeBucket))
	sb.WriteString(fmt.Sprintf("| Columns | %s |\n", r.Request.Dimension))
	if r.Request.TopN > 0 {
		sb.WriteString(fmt.Sprintf("| Top N | %d |\n", r.Request.TopN))
	} else {
		sb.WriteString("| Top N | all |\n")
	}
	if len(r.Request.Filters) > 0 {
		sb.WriteString(fmt.Sprintf("| Filters | %s |\n", strings.Join(r.Request.Filters, ", ")))
	}
	sb.WriteString("\n")

	// Data Quality
	writeDataQuality(&sb, r.DataQuality)

	// Overviews
	writeOverview(&sb, "Overall", r.Overall, "No records loaded.")
	writeOverview(&sb, "Selected Period", r.Overview, "No records match the current filters.")

	// Latest period
	if len(r.Latest) > 0 {
		sb.WriteString(fmt.Sprintf("## Latest Period (%s)\n\n", r.Latest[0].Bucket))
		sb.WriteString("| Column | Value | Change |\n")
		sb.WriteString("|--------|-------|--------|\n")
		for _, lc := range r.Latest {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", lc.Label, formatValue(lc.Value), formatDelta(lc.ChangeRate)))
		}
		sb.WriteString("\n")
	}

	writeYearSummary(&sb, r.YearSummary)

	// Tables
	for _, t := range r.Tables {
		writeTableSection(&sb, t)
	}

	// Shares
	sb.WriteString("## Share Breakdown\n\n")
	if len(r.Shares) > 0 {
		sb.WriteString("| Label | Amount | Amount% | Volume | Volume% | Count | Count% |\n")
		sb.WriteString("|-------|--------|---------|--------|---------|-------|--------|\n")
		for _, s := range r.Shares {
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %.1f%% | %.2f | %.1f%% | %d | %.1f%% |\n",
				s.Label, s.Amount, s.AmountShare, s.Volume, s.VolumeShare, s.Count, s.CountShare))
		}
	} else {
		sb.WriteString("No share data available.\n")
	}
	sb.WriteString("\n")

	// Movers
	writeMovers(&sb, r.Movers)

	// Drill-downs
	for _, d := range r.DrillDowns {
		sb.WriteString(RenderDrillDownMarkdown(d))
	}

	return sb.String()
}

func writeDataQuality(sb *strings.Builder, dq DataQualitySection) {
	sb.WriteString("## Data Quality\n\n")
	if len(dq.SufficiencyChecks) > 0 {
		sb.WriteString("| Check | Threshold | Actual | Status |\n")
		sb.WriteString("|-------|-----------|--------|--------|\n")
		for _, check := range dq.SufficiencyChecks {
			status := "FAIL"
			if check.Pass {
				status = "PASS"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				check.Name, check.Threshold, check.Actual, status))
		}
		sb.WriteString("\n")
	} else if len(dq.TableErrors) == 0 {
		sb.WriteString("No data quality checks performed.\n\n")
	}

	if len(dq.TableErrors) > 0 {
		sb.WriteString("### Failed Tables\n\n")
		for _, e := range dq.TableErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	if dq.AllChecksPassed {
		sb.WriteString("**All checks passed.**\n\n")
	} else {
		sb.WriteString("**Some checks failed.** Tables below may be incomplete.\n\n")
	}
}

func writeOverview(sb *strings.Builder, title string, ov domain.Overview, empty string) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	if ov.TransactionCount == 0 {
		sb.WriteString(empty + "\n\n")
		return
	}
	sb.WriteString("| KPI | Value |\n")
	sb.WriteString("|-----|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Amount | %.0f |\n", ov.TotalAmount))
	sb.WriteString(fmt.Sprintf("| Total Volume | %.2f |\n", ov.TotalVolume))
	sb.WriteString(fmt.Sprintf("| Transactions | %d |\n", ov.TransactionCount))
	sb.WriteString(fmt.Sprintf("| Items | %d |\n", ov.DistinctItems))
	sb.WriteString(fmt.Sprintf("| Sellers | %d |\n", ov.DistinctSellers))
	sb.WriteString(fmt.Sprintf("| Buyers | %d |\n", ov.DistinctBuyers))
	sb.WriteString(fmt.Sprintf("| Top Item | %s (%.0f) |\n", ov.TopItem, ov.TopItemAmount))
	sb.WriteString(fmt.Sprintf("| Covered Days | %d (%s to %s) |\n",
		ov.CoveredDays, ov.FirstDate.Format("2006-01-02"), ov.LastDate.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("| Daily Average | %.0f |\n", ov.DailyAverage))
	sb.WriteString(fmt.Sprintf("| Year-End Projection | %.0f |\n", ov.YearEndProjection))
	sb.WriteString("\n")
}

// writeYearSummary renders the dominant-year totals and the last bucket
// of that year per category.
func writeYearSummary(sb *strings.Builder, ys domain.YearSummary) {
	if ys.Year == "" {
		return
	}
	ov := ys.Overview
	sb.WriteString(fmt.Sprintf("## %s Summary\n\n", ys.Year))
	sb.WriteString(fmt.Sprintf("Total amount %.0f over %d days, projected %.0f by year end.\n\n",
		ov.TotalAmount, ov.CoveredDays, ov.YearEndProjection))
	if len(ys.Latest) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("| Category | %s | Change |\n", ys.Latest[0].Bucket))
	sb.WriteString("|----------|-------|--------|\n")
	for _, lc := range ys.Latest {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escapeCell(lc.Label), formatValue(lc.Value), formatDelta(lc.ChangeRate)))
	}
	sb.WriteString("\n")
}

func writeTableSection(sb *strings.Builder, t TableSection) {
	title := string(t.Metric.Metric)
	if t.Metric.Unit != "" {
		title = fmt.Sprintf("%s (%s)", title, t.Metric.Unit)
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", strings.ToUpper(title[:1])+title[1:]))

	sb.WriteString("### Pivot\n\n")
	if t.Pivot == nil || t.Pivot.IsEmpty() {
		sb.WriteString("No data available.\n\n")
		return
	}
	writeGrid(sb, t.Pivot.RowLabels, t.Pivot.ColumnLabels, func(r, c int) string {
		return formatValue(t.Pivot.Cells[r][c])
	})

	if t.Percentage != nil {
		sb.WriteString("### Share of Row (%)\n\n")
		writeDerived(sb, &t.Percentage.DerivedTable, formatPercent)
	}
	if t.Delta != nil {
		sb.WriteString("### Period Change (%)\n\n")
		writeDerived(sb, &t.Delta.DerivedTable, formatDelta)
	}
}

func writeDerived(sb *strings.Builder, t *domain.DerivedTable, format func(*float64) string) {
	switch t.Status {
	case domain.StatusEmpty:
		sb.WriteString("No data available.\n\n")
		return
	case domain.StatusInsufficientData:
		sb.WriteString("Insufficient data.\n\n")
		return
	}
	writeGrid(sb, t.RowLabels, t.ColumnLabels, func(r, c int) string {
		return format(t.Cells[r][c])
	})
}

// writeGrid renders a labelled table with the time bucket as first column.
func writeGrid(sb *strings.Builder, rows, cols []string, cell func(r, c int) string) {
	sb.WriteString("| Period |")
	for _, c := range cols {
		sb.WriteString(" " + escapeCell(c) + " |")
	}
	sb.WriteString("\n|--------|")
	for range cols {
		sb.WriteString("------|")
	}
	sb.WriteString("\n")
	for r, label := range rows {
		if label == domain.TotalLabel {
			label = "**" + label + "**"
		}
		sb.WriteString("| " + label + " |")
		for c := range cols {
			sb.WriteString(" " + cell(r, c) + " |")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeMovers(sb *strings.Builder, m domain.Movers) {
	sb.WriteString("## Movers\n\n")
	if m.PreviousBucket == "" {
		sb.WriteString("Fewer than two periods; no comparison available.\n\n")
		return
	}
	sb.WriteString(fmt.Sprintf("%s vs %s\n\n", m.CurrentBucket, m.PreviousBucket))

	write := func(title string, movers []domain.Mover) {
		sb.WriteString(fmt.Sprintf("### %s\n\n", title))
		if len(movers) == 0 {
			sb.WriteString("None.\n\n")
			return
		}
		sb.WriteString("| Label | Previous | Current | Change | Rate |\n")
		sb.WriteString("|-------|----------|---------|--------|------|\n")
		for _, mv := range movers {
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %+.0f | %+.1f%% |\n",
				mv.Label, mv.Previous, mv.Current, mv.Change, mv.ChangeRate))
		}
		sb.WriteString("\n")
	}
	write("Increases", m.Increases)
	write("Decreases", m.Decreases)
}

// RenderDrillDownMarkdown renders one drill-down result.
func RenderDrillDownMarkdown(d *domain.DrillDownResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Drill-down: %s / %s\n\n", d.Bucket, d.Category))
	if d.NoRecords {
		sb.WriteString("No records for this selection.\n\n")
		return sb.String()
	}

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Amount | %.0f |\n", d.Totals.Amount))
	sb.WriteString(fmt.Sprintf("| Volume | %.2f |\n", d.Totals.Volume))
	sb.WriteString(fmt.Sprintf("| Records | %d |\n", d.Totals.Count))
	sb.WriteString(fmt.Sprintf("| Items | %d |\n", d.Totals.DistinctItems))
	sb.WriteString("\n")

	writeGroups(&sb, "By Seller", d.BySeller, d.SellerStats, true, false)
	writeGroups(&sb, "By Buyer", d.ByBuyer, d.BuyerStats, false, true)
	writeGroups(&sb, "By Seller and Buyer", d.ByPair, d.PairStats, true, true)

	p := d.Page
	sb.WriteString(fmt.Sprintf("### Records (page %d of %d, %d total)\n\n", p.Page, p.TotalPages, p.TotalRecords))
	sb.WriteString("| Date | Item | Seller | Buyer | Trade Type | Amount | Volume |\n")
	sb.WriteString("|------|------|--------|-------|------------|--------|--------|\n")
	for _, r := range p.Records {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %.0f | %s |\n",
			r.ConfirmedDate.Format("2006-01-02"), escapeCell(r.Item), escapeCell(r.Seller), escapeCell(r.Buyer),
			r.TradeTypeCorrected, r.ConfirmedAmount, optional(r.ConfirmedVolume)))
	}
	sb.WriteString("\n")

	return sb.String()
}

func writeGroups(sb *strings.Builder, title string, groups []domain.GroupSummary, stats domain.GroupStats, seller, buyer bool) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	if len(groups) == 0 {
		sb.WriteString("None.\n\n")
		return
	}
	sb.WriteString(fmt.Sprintf("%d groups, average amount %.0f, average count %.1f\n\n",
		stats.Groups, stats.AvgAmount, stats.AvgCount))

	var header, rule []string
	if seller {
		header = append(header, "Seller", "Seller Type")
		rule = append(rule, "------", "-----------")
	}
	if buyer {
		header = append(header, "Buyer", "Buyer Type")
		rule = append(rule, "-----", "----------")
	}
	header = append(header, "Amount", "Volume", "Count", "Trade Types")
	rule = append(rule, "------", "------", "-----", "-----------")
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sb.WriteString("|" + strings.Join(rule, "|") + "|\n")

	for _, g := range groups {
		var cells []string
		if seller {
			cells = append(cells, escapeCell(g.Seller), g.SellerType)
		}
		if buyer {
			cells = append(cells, escapeCell(g.Buyer), g.BuyerType)
		}
		cells = append(cells,
			fmt.Sprintf("%.0f", g.Amount),
			fmt.Sprintf("%.2f", g.Volume),
			fmt.Sprintf("%d", g.Count),
			g.TradeTypes)
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
