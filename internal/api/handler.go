// Package api serves analysis passes and drill-downs over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/drilldown"
	"trade-kpi-lab/internal/metrics"
	"trade-kpi-lab/internal/observability"
	"trade-kpi-lab/internal/pipeline"
	"trade-kpi-lab/internal/storage"
)

// Handler exposes one engine and its source.
type Handler struct {
	engine   *pipeline.Engine
	source   storage.RecordSource
	defaults pipeline.Request
	pageSize int
	timeout  time.Duration
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a handler. defaults is the request that query
// parameters are overlaid on.
func NewHandler(engine *pipeline.Engine, source storage.RecordSource, defaults pipeline.Request) *Handler {
	return &Handler{
		engine:   engine,
		source:   source,
		defaults: defaults,
		pageSize: drilldown.DefaultPageSize,
		timeout:  60 * time.Second,
		validate: newValidator(),
		log:      zerolog.Nop(),
	}
}

// WithLogger sets the logger.
func (h *Handler) WithLogger(log zerolog.Logger) *Handler {
	h.log = log.With().Str("component", "api").Logger()
	return h
}

// WithPageSize sets the drill-down page size used when a request names none.
func (h *Handler) WithPageSize(n int) *Handler {
	if drilldown.ValidPageSize(n) {
		h.pageSize = n
	}
	return h
}

// WithTimeout bounds each request.
func (h *Handler) WithTimeout(d time.Duration) *Handler {
	h.timeout = d
	return h
}

// Routes builds the router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/pass", h.GetPass)
		r.Get("/overview", h.GetOverview)
		r.Get("/pivot", h.GetPivot)
		r.Get("/shares", h.GetShares)
		r.Get("/movers", h.GetMovers)
		r.Get("/drilldown", h.GetDrillDown)
		r.Get("/options", h.GetOptions)
		r.Post("/reload", h.Reload)
	})
	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(r, err)
	ev := h.log.Warn()
	if p.Status >= http.StatusInternalServerError {
		ev = h.log.Error()
	}
	ev.Err(err).Str("request_id", p.RequestID).Int("status", p.Status).Msg("request failed")
	_ = render.Render(w, r, p)
}

// run parses the shared query and computes or fetches the pass.
func (h *Handler) run(r *http.Request, q analysisQuery) (*pipeline.Result, error) {
	if err := validateQuery(h.validate, q); err != nil {
		return nil, err
	}
	return h.engine.Run(r.Context(), q.apply(h.defaults))
}

// GetPass handles GET /api/v1/pass with the whole pass result.
func (h *Handler) GetPass(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(r, parseAnalysisQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

// OverviewResponse is the body of GET /api/v1/overview.
type OverviewResponse struct {
	PassID          string                      `json:"pass_id"`
	SourceID        string                      `json:"source_id"`
	TotalRecords    int                         `json:"total_records"`
	FilteredRecords int                         `json:"filtered_records"`
	Overall         domain.Overview             `json:"overall"`
	Overview        domain.Overview             `json:"overview"`
	YearSummary     domain.YearSummary          `json:"year_summary"`
	Latest          []domain.LatestChange       `json:"latest"`
	Sufficiency     *pipeline.SufficiencyResult `json:"sufficiency"`
	TableErrors     map[string]string           `json:"table_errors,omitempty"`
}

// GetOverview handles GET /api/v1/overview.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(r, parseAnalysisQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, OverviewResponse{
		PassID:          res.PassID.String(),
		SourceID:        res.SourceID,
		TotalRecords:    res.TotalRecords,
		FilteredRecords: res.FilteredRecords,
		Overall:         res.Overall,
		Overview:        res.Overview,
		YearSummary:     res.YearSummary,
		Latest:          res.Latest,
		Sufficiency:     res.Sufficiency,
		TableErrors:     res.TableErrors,
	})
}

// PivotResponse is the body of GET /api/v1/pivot.
type PivotResponse struct {
	PassID     string                   `json:"pass_id"`
	Metric     domain.Metric            `json:"metric"`
	Selection  domain.TopNSelection     `json:"selection"`
	Pivot      *domain.PivotTable       `json:"pivot"`
	Percentage *domain.PercentageTable  `json:"percentage"`
	Delta      *domain.PeriodDeltaTable `json:"delta"`
	Trends     [][]domain.Trend         `json:"trends"`
}

// GetPivot handles GET /api/v1/pivot for one metric.
func (h *Handler) GetPivot(w http.ResponseWriter, r *http.Request) {
	q := parsePivotQuery(r.URL.Query())
	if err := validateQuery(h.validate, q); err != nil {
		h.fail(w, r, err)
		return
	}
	req := q.apply(h.defaults)
	m := q.metric()
	req.Metrics = metricsWith(req.Metrics, m)

	res, err := h.engine.Run(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	delta := res.Delta(m)
	render.JSON(w, r, PivotResponse{
		PassID:     res.PassID.String(),
		Metric:     m,
		Selection:  res.Selection,
		Pivot:      res.Pivot(m),
		Percentage: res.Percentage(m),
		Delta:      delta,
		Trends:     metrics.Trends(delta),
	})
}

// metricsWith makes sure m is among specs, adding its standard preset.
func metricsWith(specs []domain.MetricSpec, m domain.Metric) []domain.MetricSpec {
	if len(specs) == 0 {
		specs = pipeline.DefaultMetrics
	}
	for _, s := range specs {
		if s.Metric == m {
			return specs
		}
	}
	out := append([]domain.MetricSpec(nil), specs...)
	for _, s := range pipeline.DefaultMetrics {
		if s.Metric == m {
			out = append(out, s)
		}
	}
	return out
}

// GetShares handles GET /api/v1/shares.
func (h *Handler) GetShares(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(r, parseAnalysisQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"pass_id":   res.PassID.String(),
		"dimension": res.Request.SharesDimension,
		"shares":    res.Shares,
	})
}

// GetMovers handles GET /api/v1/movers.
func (h *Handler) GetMovers(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(r, parseAnalysisQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"pass_id":   res.PassID.String(),
		"dimension": res.Request.MoversDimension,
		"movers":    res.Movers,
	})
}

// GetDrillDown handles GET /api/v1/drilldown?bucket=..&column=..
func (h *Handler) GetDrillDown(w http.ResponseWriter, r *http.Request) {
	q := parseDrillQuery(r.URL.Query())
	if err := validateQuery(h.validate, q); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.engine.DrillDown(r.Context(), q.apply(h.defaults), q.selection(), q.page(h.pageSize))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

// GetOptions handles GET /api/v1/options with the filter values per dimension.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.engine.FilterOptions()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// ReloadResponse is the body of POST /api/v1/reload.
type ReloadResponse struct {
	SourceID string    `json:"source_id"`
	Records  int       `json:"records"`
	Dropped  int       `json:"dropped"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Reload handles POST /api/v1/reload, reading the source again.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	ds, err := h.engine.Reload(r.Context(), h.source)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info().Str("source", ds.SourceID()).Int("records", ds.Len()).Msg("dataset reloaded")
	render.JSON(w, r, ReloadResponse{
		SourceID: ds.SourceID(),
		Records:  ds.Len(),
		Dropped:  ds.Dropped(),
		LoadedAt: ds.LoadedAt(),
	})
}
