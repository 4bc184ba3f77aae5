package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/drilldown"
	"trade-kpi-lab/internal/filter"
	"trade-kpi-lab/internal/idhash"
	"trade-kpi-lab/internal/normalization"
	"trade-kpi-lab/internal/observability"
	"trade-kpi-lab/internal/storage"
)

// Options configures Engine memoization.
type Options struct {
	DatasetTTL      time.Duration
	PassTTL         time.Duration
	CleanupInterval time.Duration
}

// DefaultOptions returns the memo settings used when none are given.
func DefaultOptions() Options {
	return Options{
		DatasetTTL:      cache.NoExpiration,
		PassTTL:         15 * time.Minute,
		CleanupInterval: 30 * time.Minute,
	}
}

// Engine loads a dataset once per source and runs memoized passes over it.
// It is safe for concurrent use.
type Engine struct {
	datasets *cache.Cache
	passes   *cache.Cache
	passTTL  time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex // serializes loads
	current string     // source id of the active dataset
}

// NewEngine creates an engine with the given memo options.
func NewEngine(opts Options) *Engine {
	return &Engine{
		datasets: cache.New(opts.DatasetTTL, opts.CleanupInterval),
		passes:   cache.New(opts.PassTTL, opts.CleanupInterval),
		passTTL:  opts.PassTTL,
		log:      zerolog.Nop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithLogger sets the logger.
func (e *Engine) WithLogger(log zerolog.Logger) *Engine {
	e.log = log
	return e
}

// WithClock sets a custom clock function for deterministic output.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Load makes src the active source. A source whose SourceID matches the
// memoized dataset is not read again; a different source replaces the
// memo and invalidates every pass computed from the old one.
func (e *Engine) Load(ctx context.Context, src storage.RecordSource) (*domain.Dataset, error) {
	return e.load(ctx, src, false)
}

// Reload reads src again even if its dataset is memoized.
func (e *Engine) Reload(ctx context.Context, src storage.RecordSource) (*domain.Dataset, error) {
	return e.load(ctx, src, true)
}

func (e *Engine) load(ctx context.Context, src storage.RecordSource, force bool) (*domain.Dataset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := src.SourceID()
	if !force {
		if v, ok := e.datasets.Get(id); ok {
			observability.RecordMemo("dataset", true)
			e.log.Debug().Str("source", id).Msg("dataset memo hit")
			e.current = id
			return v.(*domain.Dataset), nil
		}
	}
	observability.RecordMemo("dataset", false)

	ds, err := normalization.NewRunner(src).WithLogger(e.log).WithClock(e.now).Load(ctx)
	if err != nil {
		return nil, err
	}

	if e.current != "" && e.current != id {
		e.log.Info().Str("previous", e.current).Str("source", id).Msg("source changed, flushing memo")
	}
	e.datasets.Flush()
	e.passes.Flush()
	e.datasets.Set(id, ds, cache.DefaultExpiration)
	e.current = id
	return ds, nil
}

// Dataset returns the active dataset.
func (e *Engine) Dataset() (*domain.Dataset, error) {
	e.mu.Lock()
	id := e.current
	e.mu.Unlock()

	if id == "" {
		return nil, ErrNoDataset
	}
	v, ok := e.datasets.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: dataset for %s expired", ErrNoDataset, id)
	}
	return v.(*domain.Dataset), nil
}

// Run computes a pass over the active dataset. Identical requests against
// the same source return the memoized Result.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := e.Dataset()
	if err != nil {
		return nil, err
	}
	req, err = req.Normalize()
	if err != nil {
		return nil, err
	}

	key, err := idhash.ComputeFingerprint(ds.SourceID(), req)
	if err != nil {
		return nil, fmt.Errorf("fingerprint request: %w", err)
	}
	if v, ok := e.passes.Get(key); ok {
		observability.RecordMemo("pass", true)
		return v.(*Result), nil
	}
	observability.RecordMemo("pass", false)

	start := time.Now()
	res := Compute(ds, req, e.now())
	elapsed := time.Since(start)

	status := "ok"
	if len(res.TableErrors) > 0 {
		status = "degraded"
		e.log.Warn().Interface("table_errors", res.TableErrors).Msg("pass completed with failed tables")
	}
	observability.RecordPass(status, elapsed.Seconds())

	e.log.Debug().
		Str("pass_id", res.PassID.String()).
		Str("fingerprint", key[:12]).
		Int("records", res.FilteredRecords).
		Dur("elapsed", elapsed).
		Msg("pass computed")

	e.passes.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

// DrillDown resolves one cell of the pass described by req. Only records
// passing req.Criteria are considered.
func (e *Engine) DrillDown(ctx context.Context, req Request, sel drilldown.Selection, page drilldown.PageRequest) (*domain.DrillDownResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := e.Dataset()
	if err != nil {
		return nil, err
	}
	req, err = req.Normalize()
	if err != nil {
		return nil, err
	}
	if sel.TimeBucket == "" {
		sel.TimeBucket = req.TimeBucket
	}
	if sel.Dimension == "" {
		sel.Dimension = req.Dimension
	}

	res, err := drilldown.Resolve(filter.Apply(ds.Records(), req.Criteria), sel, page)
	switch {
	case err != nil:
		observability.RecordDrillDown("rejected")
		return nil, err
	case res.NoRecords:
		observability.RecordDrillDown("empty")
	default:
		observability.RecordDrillDown("ok")
	}
	return res, nil
}

// FilterOptions lists the values offered for each filterable dimension of
// the active dataset, ALL first.
func (e *Engine) FilterOptions() (map[domain.Dimension][]string, error) {
	ds, err := e.Dataset()
	if err != nil {
		return nil, err
	}
	records := ds.Records()
	out := make(map[domain.Dimension][]string)
	for _, d := range []domain.Dimension{
		domain.DimCategory, domain.DimSubCategory, domain.DimItem,
		domain.DimSellerType, domain.DimSellerDetailType, domain.DimBuyerType,
		domain.DimTradeTypeCorrected,
	} {
		out[d] = filter.SortedOptions(records, d)
	}
	return out, nil
}
