package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"trade-kpi-lab/internal/drilldown"
	"trade-kpi-lab/internal/ingestion"
	"trade-kpi-lab/internal/pipeline"
	"trade-kpi-lab/internal/storage"
)

// errBadQuery marks query parameters that fail parsing or validation.
var errBadQuery = errors.New("invalid query")

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Render implements render.Renderer.
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

type problemKind struct {
	err    error
	status int
	typ    string
	title  string
}

// Checked in order; the first match wins.
var problemKinds = []problemKind{
	{pipeline.ErrNoDataset, http.StatusServiceUnavailable, "no-dataset", "No dataset loaded"},
	{pipeline.ErrInvalidRequest, http.StatusBadRequest, "invalid-request", "Invalid analysis request"},
	{errBadQuery, http.StatusBadRequest, "invalid-query", "Invalid query parameters"},
	{drilldown.ErrEmptySelection, http.StatusBadRequest, "empty-selection", "Empty selection"},
	{drilldown.ErrInvalidSelection, http.StatusBadRequest, "invalid-selection", "Invalid selection"},
	{drilldown.ErrAggregateSelection, http.StatusUnprocessableEntity, "aggregate-selection", "Total cells cannot be drilled into"},
	{storage.ErrNotFound, http.StatusNotFound, "source-not-found", "Source not found"},
	{ingestion.ErrEmptySource, http.StatusUnprocessableEntity, "empty-source", "Source has no usable rows"},
	{ingestion.ErrUnsupportedFormat, http.StatusUnprocessableEntity, "unsupported-format", "Unsupported source format"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout", "Request timed out"},
}

// problemFor maps err onto a Problem.
func problemFor(r *http.Request, err error) *Problem {
	p := &Problem{
		Type:      "internal",
		Title:     "Internal server error",
		Status:    http.StatusInternalServerError,
		RequestID: middleware.GetReqID(r.Context()),
	}
	for _, k := range problemKinds {
		if errors.Is(err, k.err) {
			p.Type, p.Title, p.Status = k.typ, k.title, k.status
			p.Detail = err.Error()
			return p
		}
	}
	return p
}
