// Package config loads application settings from an optional .env file, an
// optional YAML file and TRADEKPI_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/drilldown"
	"trade-kpi-lab/internal/ingestion"
	"trade-kpi-lab/internal/pipeline"
)

// EnvPrefix prefixes every environment override, e.g. TRADEKPI_SOURCE_PATH.
const EnvPrefix = "TRADEKPI"

// Config represents the complete application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" envconfig:"SOURCE"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
}

// SourceConfig selects the record source.
type SourceConfig struct {
	Kind     string `yaml:"kind" split_words:"true" validate:"oneof=file csv excel sqlite postgres clickhouse"`
	Path     string `yaml:"path" split_words:"true" validate:"required_if=Kind file,required_if=Kind csv,required_if=Kind excel,required_if=Kind sqlite"`
	DSN      string `yaml:"dsn" split_words:"true" validate:"required_if=Kind postgres,required_if=Kind clickhouse"`
	Query    string `yaml:"query" split_words:"true"`
	Encoding string `yaml:"encoding" split_words:"true" validate:"omitempty,oneof=auto utf-8 utf8 euc-kr cp949 latin-1 latin1"`
	Sheet    string `yaml:"sheet" split_words:"true"`
}

// AnalysisConfig holds the default pass settings.
type AnalysisConfig struct {
	TimeBucket      string   `yaml:"time_bucket" split_words:"true" validate:"oneof=year year_quarter year_month year_week"`
	Dimension       string   `yaml:"dimension" split_words:"true" validate:"required"`
	TopN            int      `yaml:"top_n" split_words:"true" validate:"gte=0"`
	ShowRowTotal    bool     `yaml:"show_row_total" split_words:"true"`
	ShowColTotal    bool     `yaml:"show_col_total" split_words:"true"`
	AmountDivisor   float64  `yaml:"amount_divisor" split_words:"true" validate:"gt=0"`
	VolumeDivisor   float64  `yaml:"volume_divisor" split_words:"true" validate:"gt=0"`
	ExcludeRice     bool     `yaml:"exclude_rice" split_words:"true"`
	ExcludedItems   []string `yaml:"excluded_items" split_words:"true"`
	DefaultPageSize int      `yaml:"default_page_size" split_words:"true" validate:"oneof=10 25 50 100"`
	MoversLimit     int      `yaml:"movers_limit" split_words:"true" validate:"gte=1"`
}

// CacheConfig controls dataset and pass memoization.
type CacheConfig struct {
	DatasetTTL      time.Duration `yaml:"dataset_ttl" split_words:"true"`
	PassTTL         time.Duration `yaml:"pass_ttl" split_words:"true" validate:"gte=0"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" split_words:"true" validate:"gte=0"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=json console"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr" split_words:"true" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{Kind: ingestion.KindFile},
		Analysis: AnalysisConfig{
			TimeBucket:      string(domain.BucketYearMonth),
			Dimension:       string(domain.DimCategory),
			ShowRowTotal:    true,
			ShowColTotal:    true,
			AmountDivisor:   domain.AmountMillionWon.Divisor,
			VolumeDivisor:   domain.VolumeTonnes.Divisor,
			DefaultPageSize: drilldown.DefaultPageSize,
			MoversLimit:     10,
		},
		Cache: CacheConfig{
			DatasetTTL:      -1, // never expires
			PassTTL:         15 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

// Load builds the configuration. Steps:
//  1. Start from Default
//  2. Load .env into the process environment if present
//  3. Overlay the YAML file at path, if path is non-empty
//  4. Apply TRADEKPI_* environment overrides
//  5. Validate
func Load(path string) (*Config, error) {
	cfg := Default()

	// 2. .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// 3. YAML
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// 4. Environment
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	// 5. Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and domain vocabularies.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := domain.ParseDimension(c.Analysis.Dimension); err != nil {
		return fmt.Errorf("config validation failed: analysis.dimension: %w", err)
	}
	return nil
}

// SourceSpec converts the source section for ingestion.Open.
func (c *Config) SourceSpec() ingestion.Spec {
	return ingestion.Spec{
		Kind:     c.Source.Kind,
		Path:     c.Source.Path,
		DSN:      c.Source.DSN,
		Query:    c.Source.Query,
		Encoding: c.Source.Encoding,
		Sheet:    c.Source.Sheet,
	}
}

// Request converts the analysis section into a default pass request.
func (c *Config) Request() pipeline.Request {
	a := c.Analysis
	req := pipeline.Request{
		TimeBucket:   domain.TimeBucket(a.TimeBucket),
		Dimension:    domain.Dimension(a.Dimension),
		TopN:         a.TopN,
		ShowRowTotal: a.ShowRowTotal,
		ShowColTotal: a.ShowColTotal,
		MoversLimit:  a.MoversLimit,
		Metrics: []domain.MetricSpec{
			{Metric: domain.MetricAmount, Divisor: a.AmountDivisor, Unit: unitFor(a.AmountDivisor, domain.AmountMillionWon)},
			{Metric: domain.MetricVolume, Divisor: a.VolumeDivisor, Unit: unitFor(a.VolumeDivisor, domain.VolumeTonnes)},
			domain.TransactionCount,
		},
	}
	excluded := append([]string(nil), a.ExcludedItems...)
	if a.ExcludeRice {
		excluded = append(excluded, domain.RiceItems...)
	}
	req.Criteria.ExcludedItems = excluded
	return req
}

// PipelineOptions converts the cache section.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		DatasetTTL:      c.Cache.DatasetTTL,
		PassTTL:         c.Cache.PassTTL,
		CleanupInterval: c.Cache.CleanupInterval,
	}
}

func unitFor(divisor float64, preset domain.MetricSpec) string {
	if divisor == preset.Divisor {
		return preset.Unit
	}
	return fmt.Sprintf("/%g", divisor)
}
