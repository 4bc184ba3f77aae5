package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/ingestion"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeYAML(t, `
source:
  kind: csv
  path: data/trades.csv
  encoding: cp949
analysis:
  time_bucket: year_week
  dimension: item
  top_n: 5
  exclude_rice: true
cache:
  pass_ttl: 5m
server:
  addr: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ingestion.KindCSV, cfg.Source.Kind)
	assert.Equal(t, "cp949", cfg.Source.Encoding)
	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.Equal(t, 5*time.Minute, cfg.Cache.PassTTL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	// Defaults survive a partial file.
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 25, cfg.Analysis.DefaultPageSize)

	req := cfg.Request()
	assert.Equal(t, domain.BucketYearWeek, req.TimeBucket)
	assert.Equal(t, domain.DimItem, req.Dimension)
	assert.Equal(t, domain.RiceItems, req.Criteria.ExcludedItems)
	assert.Equal(t, "KRW mn", req.Metrics[0].Unit)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, "source:\n  kind: csv\n  path: a.csv\n")
	t.Setenv("TRADEKPI_SOURCE_PATH", "b.csv")
	t.Setenv("TRADEKPI_ANALYSIS_TOP_N", "3")
	t.Setenv("TRADEKPI_ANALYSIS_EXCLUDED_ITEMS", "벼,찰벼,보리")
	t.Setenv("TRADEKPI_LOG_FORMAT", "console")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "b.csv", cfg.Source.Path)
	assert.Equal(t, 3, cfg.Analysis.TopN)
	assert.Equal(t, []string{"벼", "찰벼", "보리"}, cfg.Analysis.ExcludedItems)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_IgnoresUnprefixedEnv(t *testing.T) {
	path := writeYAML(t, `
source:
  kind: csv
  path: data.csv
log:
  level: warn
  format: console
server:
  addr: ":9191"
`)
	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("KIND", "postgres")
	t.Setenv("LEVEL", "debug")
	t.Setenv("FORMAT", "json")
	t.Setenv("ADDR", ":1")
	t.Setenv("TOP_N", "9")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ingestion.KindCSV, cfg.Source.Kind)
	assert.Equal(t, "data.csv", cfg.Source.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, ":9191", cfg.Server.Addr)
	assert.Equal(t, 0, cfg.Analysis.TopN)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown kind", "source:\n  kind: ftp\n  path: x\n"},
		{"missing path", "source:\n  kind: csv\n"},
		{"missing dsn", "source:\n  kind: postgres\n"},
		{"bad bucket", "source:\n  path: x.csv\nanalysis:\n  time_bucket: fortnight\n"},
		{"bad dimension", "source:\n  path: x.csv\nanalysis:\n  dimension: colour\n"},
		{"bad page size", "source:\n  path: x.csv\nanalysis:\n  default_page_size: 7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeYAML(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Conversions(t *testing.T) {
	cfg := Default()
	cfg.Source = SourceConfig{Kind: ingestion.KindPostgres, DSN: "postgres://x", Query: "SELECT 1"}
	cfg.Analysis.AmountDivisor = 1000

	spec := cfg.SourceSpec()
	assert.Equal(t, ingestion.KindPostgres, spec.Kind)
	assert.Equal(t, "SELECT 1", spec.Query)

	req := cfg.Request()
	assert.Equal(t, 1000.0, req.Metrics[0].Divisor)
	assert.Equal(t, "/1000", req.Metrics[0].Unit)

	opts := cfg.PipelineOptions()
	assert.Equal(t, 15*time.Minute, opts.PassTTL)
}
