package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"trade-kpi-lab/internal/config"
	"trade-kpi-lab/internal/drilldown"
	"trade-kpi-lab/internal/ingestion"
	"trade-kpi-lab/internal/logger"
	"trade-kpi-lab/internal/pipeline"
	"trade-kpi-lab/internal/reporting"
)

// drillFlags collects repeated -drill bucket:column selections.
type drillFlags []string

func (d *drillFlags) String() string { return strings.Join(*d, ",") }

func (d *drillFlags) Set(v string) error {
	if !strings.Contains(v, ":") {
		return fmt.Errorf("expected bucket:column, got %q", v)
	}
	*d = append(*d, v)
	return nil
}

func main() {
	// Parse flags; set flags override the config file and environment
	configPath := flag.String("config", "", "YAML config file")
	kind := flag.String("source", "", "Source kind (file, csv, excel, sqlite, postgres, clickhouse)")
	path := flag.String("path", "", "Source file path")
	dsn := flag.String("dsn", "", "Database connection string")
	query := flag.String("query", "", "Read-only SELECT for database sources")
	encoding := flag.String("encoding", "", "Text encoding for CSV sources (auto, utf-8, euc-kr, latin-1)")
	bucket := flag.String("bucket", "", "Time bucket (year, year_quarter, year_month, year_week)")
	dimension := flag.String("dimension", "", "Pivot column dimension")
	top := flag.Int("top", 0, "Keep only the top N columns by amount (0 keeps all)")
	from := flag.String("from", "", "First confirmed date, YYYY-MM-DD")
	to := flag.String("to", "", "Last confirmed date, YYYY-MM-DD")
	outputDir := flag.String("output-dir", "output", "Output directory for generated files")
	var drills drillFlags
	flag.Var(&drills, "drill", "Drill-down cell as bucket:column (repeatable)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source.Kind = *kind
		case "path":
			cfg.Source.Path = *path
		case "dsn":
			cfg.Source.DSN = *dsn
		case "query":
			cfg.Source.Query = *query
		case "encoding":
			cfg.Source.Encoding = *encoding
		case "bucket":
			cfg.Analysis.TimeBucket = *bucket
		case "dimension":
			cfg.Analysis.Dimension = *dimension
		case "top":
			cfg.Analysis.TopN = *top
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	ctx := logger.WithContext(context.Background(), log)

	req := cfg.Request()
	if req.Criteria.DateFrom, err = parseDate(*from); err != nil {
		fmt.Fprintf(os.Stderr, "Error: -from: %v\n", err)
		os.Exit(1)
	}
	if req.Criteria.DateTo, err = parseDate(*to); err != nil {
		fmt.Fprintf(os.Stderr, "Error: -to: %v\n", err)
		os.Exit(1)
	}

	// Open source
	src, closeSrc, err := ingestion.Open(ctx, cfg.SourceSpec())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening source: %v\n", err)
		os.Exit(1)
	}
	defer closeSrc()

	// Load and run
	engine := pipeline.NewEngine(cfg.PipelineOptions()).WithLogger(log)
	ds, err := engine.Load(ctx, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading source: %v\n", err)
		os.Exit(1)
	}
	res, err := engine.Run(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running analysis: %v\n", err)
		os.Exit(1)
	}

	report := reporting.NewGenerator().Generate(ds, res)
	for _, d := range drills {
		b, c, _ := strings.Cut(d, ":")
		sel := drilldown.Selection{Bucket: b, Category: c}
		page := drilldown.PageRequest{Page: 1, PageSize: cfg.Analysis.DefaultPageSize}
		dd, err := engine.DrillDown(ctx, req, sel, page)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: drill-down %s: %v\n", d, err)
			os.Exit(1)
		}
		report.DrillDowns = append(report.DrillDowns, dd)
	}

	written, err := reporting.WriteFiles(*outputDir, report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	if len(res.TableErrors) > 0 {
		log.Warn().Interface("table_errors", res.TableErrors).Msg("some tables could not be computed")
	}
	fmt.Printf("Report generated from %d of %d records:\n", res.FilteredRecords, res.TotalRecords)
	for _, f := range written {
		fmt.Printf("  - %s\n", f)
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
