package storage

import (
	"context"

	"trade-kpi-lab/internal/domain"
)

// RecordSource supplies decoded trade rows to the analytics engine.
// Implementations are read-only.
type RecordSource interface {
	// SourceID identifies the source and its contents. Two loads with the
	// same SourceID are expected to return the same rows.
	SourceID() string

	// Kind names the source type ("csv", "postgres", ...) for logs and metrics.
	Kind() string

	// Load reads all rows. Field names are canonical (see domain.Fields).
	Load(ctx context.Context) ([]domain.RawRecord, error)
}
