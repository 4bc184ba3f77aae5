// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Load metrics
	RecordsLoaded  *prometheus.CounterVec
	RecordsDropped *prometheus.CounterVec
	LoadDuration   *prometheus.HistogramVec
	LoadErrors     *prometheus.CounterVec
	DatasetSize    prometheus.Gauge

	// Pass metrics
	PassesTotal   *prometheus.CounterVec
	PassDuration  prometheus.Histogram
	TableFailures *prometheus.CounterVec
	DrillDowns    *prometheus.CounterVec

	// Memo metrics
	MemoHits   *prometheus.CounterVec
	MemoMisses *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Reporting metrics
	ReportsGenerated prometheus.Counter

	// Health metrics
	LastSuccessfulLoad prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered on reg.
// A nil registerer uses the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "trade_kpi_lab"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RecordsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "records_loaded_total",
			Help:      "Total number of normalized records loaded by source kind",
		}, []string{"source"}),
		RecordsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "records_dropped_total",
			Help:      "Total number of raw rows dropped for missing date or amount",
		}, []string{"source"}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "duration_seconds",
			Help:      "Load and normalization duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"source"}),
		LoadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "errors_total",
			Help:      "Total number of failed loads by source kind",
		}, []string{"source"}),
		DatasetSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "load",
			Name:      "dataset_records",
			Help:      "Number of records in the currently loaded dataset",
		}),

		PassesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "runs_total",
			Help:      "Total number of analysis passes by status",
		}, []string{"status"}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "duration_seconds",
			Help:      "Analysis pass duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		TableFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "table_failures_total",
			Help:      "Total number of tables degraded to insufficient data",
		}, []string{"table"}),
		DrillDowns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "drilldowns_total",
			Help:      "Total number of drill-down resolutions by outcome",
		}, []string{"outcome"}),

		MemoHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memo",
			Name:      "hits_total",
			Help:      "Total number of memo hits by memo",
		}, []string{"memo"}),
		MemoMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memo",
			Name:      "misses_total",
			Help:      "Total number of memo misses by memo",
		}, []string{"memo"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		LastSuccessfulLoad: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_load_timestamp",
			Help:      "Unix timestamp of last successful dataset load",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordLoad records a completed dataset load.
func RecordLoad(source string, loaded, dropped int, seconds float64, unixTime int64) {
	DefaultMetrics.RecordsLoaded.WithLabelValues(source).Add(float64(loaded))
	DefaultMetrics.RecordsDropped.WithLabelValues(source).Add(float64(dropped))
	DefaultMetrics.LoadDuration.WithLabelValues(source).Observe(seconds)
	DefaultMetrics.DatasetSize.Set(float64(loaded))
	DefaultMetrics.LastSuccessfulLoad.Set(float64(unixTime))
}

// RecordLoadError records a failed dataset load.
func RecordLoadError(source string) {
	DefaultMetrics.LoadErrors.WithLabelValues(source).Inc()
}

// RecordPass records an analysis pass.
func RecordPass(status string, durationSeconds float64) {
	DefaultMetrics.PassesTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PassDuration.Observe(durationSeconds)
}

// RecordTableFailure records a table that degraded to insufficient data.
func RecordTableFailure(table string) {
	DefaultMetrics.TableFailures.WithLabelValues(table).Inc()
}

// RecordDrillDown records a drill-down resolution outcome.
func RecordDrillDown(outcome string) {
	DefaultMetrics.DrillDowns.WithLabelValues(outcome).Inc()
}

// RecordMemo records a memo lookup.
func RecordMemo(memo string, hit bool) {
	if hit {
		DefaultMetrics.MemoHits.WithLabelValues(memo).Inc()
		return
	}
	DefaultMetrics.MemoMisses.WithLabelValues(memo).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}
