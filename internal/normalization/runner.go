package normalization

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/observability"
	"trade-kpi-lab/internal/storage"
)

// Runner loads a record source and normalizes it into a Dataset.
type Runner struct {
	source storage.RecordSource
	log    zerolog.Logger
	now    func() time.Time
}

// NewRunner creates a new normalization runner.
func NewRunner(source storage.RecordSource) *Runner {
	return &Runner{
		source: source,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(log zerolog.Logger) *Runner {
	r.log = log
	return r
}

// WithClock sets a custom clock function (for testing).
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Source returns the runner's record source.
func (r *Runner) Source() storage.RecordSource {
	return r.source
}

// Load reads the source and builds a Dataset.
// Steps:
//  1. Load raw rows from the source
//  2. Coerce, classify and drop incomplete rows
//  3. Freeze the records into a Dataset
//  4. Record load metrics
func (r *Runner) Load(ctx context.Context) (*domain.Dataset, error) {
	start := r.now()
	kind := r.source.Kind()

	// 1. Load raw rows
	raw, err := r.source.Load(ctx)
	if err != nil {
		observability.RecordLoadError(kind)
		return nil, fmt.Errorf("load %s source: %w", kind, err)
	}

	// 2. Normalize
	res := Run(raw)

	// 3. Freeze
	ds := domain.NewDataset(r.source.SourceID(), res.Records, res.Dropped, r.now())

	// 4. Metrics and log
	elapsed := r.now().Sub(start)
	observability.RecordLoad(kind, ds.Len(), res.Dropped, elapsed.Seconds(), ds.LoadedAt().Unix())

	event := r.log.Info()
	if res.Dropped > 0 {
		event = r.log.Warn()
	}
	event.
		Str("source", ds.SourceID()).
		Int("rows", len(raw)).
		Int("records", ds.Len()).
		Int("dropped", res.Dropped).
		Dur("elapsed", elapsed).
		Msg("dataset loaded")

	for name, n := range res.Rules {
		r.log.Debug().Str("rule", name).Int("records", n).Msg("seller detail classification")
	}

	return ds, nil
}
