package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"trade-kpi-lab/internal/observability"
)

// ReportFile is the Markdown report name inside the output directory.
const ReportFile = "report.md"

// WriteFiles writes report.md plus one CSV per table into dir and returns
// the written paths in a fixed order:
//   - report.md
//   - pivot_<metric>.csv, percentage_<metric>.csv, delta_<metric>.csv
//   - shares.csv, movers.csv
//   - drilldown_<n>.csv for each drill-down page
func WriteFiles(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	write := func(name, content string) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(ReportFile, RenderMarkdown(r)); err != nil {
		return written, err
	}

	for _, t := range r.Tables {
		if t.Pivot == nil {
			continue
		}
		m := string(t.Metric.Metric)
		if err := write("pivot_"+m+".csv", RenderPivotCSV(t.Pivot)); err != nil {
			return written, err
		}
		if t.Percentage != nil {
			if err := write("percentage_"+m+".csv", RenderDerivedCSV(&t.Percentage.DerivedTable)); err != nil {
				return written, err
			}
		}
		if t.Delta != nil {
			if err := write("delta_"+m+".csv", RenderDerivedCSV(&t.Delta.DerivedTable)); err != nil {
				return written, err
			}
		}
	}

	if err := write("shares.csv", RenderSharesCSV(r.Shares)); err != nil {
		return written, err
	}
	if err := write("movers.csv", RenderMoversCSV(r.Movers)); err != nil {
		return written, err
	}
	for i, d := range r.DrillDowns {
		if err := write(fmt.Sprintf("drilldown_%d.csv", i+1), RenderRecordsCSV(d.Page.Records)); err != nil {
			return written, err
		}
	}

	observability.RecordReportGenerated()
	return written, nil
}
