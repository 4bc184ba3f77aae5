package memory

import (
	"context"
	"fmt"
	"sync"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/storage"
)

// RecordStore is an in-memory implementation of storage.RecordSource.
// Every insert bumps the version, so the SourceID changes with the contents.
type RecordStore struct {
	mu      sync.RWMutex
	name    string
	version int
	data    []domain.RawRecord
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore(name string) *RecordStore {
	if name == "" {
		name = "default"
	}
	return &RecordStore{name: name}
}

// Insert appends one row.
func (s *RecordStore) Insert(_ context.Context, r domain.RawRecord) error {
	if r == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data, copyRecord(r))
	s.version++
	return nil
}

// InsertBulk appends rows atomically. A nil row fails the whole batch.
func (s *RecordStore) InsertBulk(_ context.Context, rows []domain.RawRecord) error {
	if len(rows) == 0 {
		return nil
	}
	for _, r := range rows {
		if r == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rows {
		s.data = append(s.data, copyRecord(r))
	}
	s.version++
	return nil
}

// SourceID implements storage.RecordSource.
func (s *RecordStore) SourceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("memory:%s:v%d", s.name, s.version)
}

// Kind implements storage.RecordSource.
func (s *RecordStore) Kind() string {
	return "memory"
}

// Load returns copies of all rows in insertion order.
func (s *RecordStore) Load(ctx context.Context) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RawRecord, len(s.data))
	for i, r := range s.data {
		result[i] = copyRecord(r)
	}
	return result, nil
}

// Len returns the number of stored rows.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func copyRecord(r domain.RawRecord) domain.RawRecord {
	cp := make(domain.RawRecord, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

var _ storage.RecordSource = (*RecordStore)(nil)
