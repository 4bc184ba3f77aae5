package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.RecordsLoaded.WithLabelValues("csv").Add(3)
	m.MemoHits.WithLabelValues("pass").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsLoaded.WithLabelValues("csv")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MemoHits.WithLabelValues("pass")))
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.MemoMisses.WithLabelValues("dataset"))
	RecordMemo("dataset", false)
	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.MemoMisses.WithLabelValues("dataset")))

	errsBefore := testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("sqlite", "load"))
	RecordDBQuery("sqlite", "load", 0.01, errors.New("boom"))
	RecordDBQuery("sqlite", "load", 0.01, nil)
	assert.Equal(t, errsBefore+1, testutil.ToFloat64(DefaultMetrics.DBQueryErrors.WithLabelValues("sqlite", "load")))

	RecordLoad("memory", 10, 2, 0.5, 1700000000)
	assert.Equal(t, 10.0, testutil.ToFloat64(DefaultMetrics.DatasetSize))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(DefaultMetrics.LastSuccessfulLoad))
}
