package pipeline

import (
	"fmt"

	"trade-kpi-lab/internal/domain"
)

// Sufficiency thresholds.
const (
	MinPeriodsForDelta = 2
	MaxDroppedRatio    = 0.05
)

// SufficiencyCheck represents one data sufficiency criterion.
type SufficiencyCheck struct {
	Name      string `json:"name"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
	Pass      bool   `json:"pass"`
}

// SufficiencyResult contains all checks for one pass.
type SufficiencyResult struct {
	Checks  []SufficiencyCheck `json:"checks"`
	AllPass bool               `json:"all_pass"`
}

// CheckSufficiency reports whether a pass had enough data to be meaningful.
// Failing checks do not block the pass; they are surfaced in reports.
func CheckSufficiency(ds *domain.Dataset, res *Result) *SufficiencyResult {
	out := &SufficiencyResult{Checks: make([]SufficiencyCheck, 0, 4)}

	// 1. Dataset has records
	out.Checks = append(out.Checks, SufficiencyCheck{
		Name:      "Loaded records",
		Threshold: ">= 1",
		Actual:    fmt.Sprintf("%d", ds.Len()),
		Pass:      ds.Len() > 0,
	})

	// 2. Dropped rows share
	total := ds.Len() + ds.Dropped()
	var ratio float64
	if total > 0 {
		ratio = float64(ds.Dropped()) / float64(total)
	}
	out.Checks = append(out.Checks, SufficiencyCheck{
		Name:      "Dropped rows",
		Threshold: fmt.Sprintf("<= %.0f%%", MaxDroppedRatio*100),
		Actual:    fmt.Sprintf("%.1f%% (%d)", ratio*100, ds.Dropped()),
		Pass:      ratio <= MaxDroppedRatio,
	})

	// 3. Filter leaves records
	out.Checks = append(out.Checks, SufficiencyCheck{
		Name:      "Filtered records",
		Threshold: ">= 1",
		Actual:    fmt.Sprintf("%d", res.FilteredRecords),
		Pass:      res.FilteredRecords > 0,
	})

	// 4. Enough periods for deltas
	var periods int
	if len(res.Pivots) > 0 {
		periods = res.Pivots[0].DataRowCount()
	}
	out.Checks = append(out.Checks, SufficiencyCheck{
		Name:      "Periods",
		Threshold: fmt.Sprintf(">= %d", MinPeriodsForDelta),
		Actual:    fmt.Sprintf("%d", periods),
		Pass:      periods >= MinPeriodsForDelta,
	})

	out.AllPass = true
	for _, c := range out.Checks {
		if !c.Pass {
			out.AllPass = false
			break
		}
	}
	return out
}
