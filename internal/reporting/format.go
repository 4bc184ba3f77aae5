package reporting

import (
	"fmt"
	"time"

	"trade-kpi-lab/internal/domain"
)

// Trend markers used in rendered delta tables.
var trendMarkers = map[domain.Trend]string{
	domain.TrendGrowth:  "▲",
	domain.TrendDecline: "▼",
	domain.TrendFlat:    "=",
	domain.TrendNeutral: "-",
}

// TrendMarker returns the marker for a delta cell.
func TrendMarker(v *float64) string {
	return trendMarkers[domain.ClassifyTrend(v)]
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func formatDelta(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%s %+.1f%%", TrendMarker(v), *v)
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}
