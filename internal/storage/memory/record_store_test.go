package memory

import (
	"context"
	"errors"
	"testing"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/storage"
)

func TestRecordStore_InsertAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore("fixtures")

	row := domain.RawRecord{domain.FieldItem: "사과", domain.FieldConfirmedAmount: 1000}
	if err := store.Insert(ctx, row); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the caller's map must not affect the stored row.
	row[domain.FieldItem] = "배"

	rows, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][domain.FieldItem] != "사과" {
		t.Errorf("expected stored copy, got %v", rows[0][domain.FieldItem])
	}

	// Mutating the loaded row must not affect the store either.
	rows[0][domain.FieldItem] = "감"
	again, _ := store.Load(ctx)
	if again[0][domain.FieldItem] != "사과" {
		t.Errorf("Load returned shared map")
	}
}

func TestRecordStore_InsertBulkAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore("")

	err := store.InsertBulk(ctx, []domain.RawRecord{{domain.FieldItem: "a"}, nil})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store after failed batch, got %d", store.Len())
	}

	if err := store.InsertBulk(ctx, []domain.RawRecord{{domain.FieldItem: "a"}, {domain.FieldItem: "b"}}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	rows, _ := store.Load(ctx)
	if len(rows) != 2 || rows[0][domain.FieldItem] != "a" || rows[1][domain.FieldItem] != "b" {
		t.Errorf("unexpected rows or order: %v", rows)
	}
}

func TestRecordStore_SourceIDTracksContents(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore("s")

	before := store.SourceID()
	if before != store.SourceID() {
		t.Fatal("SourceID not stable without writes")
	}
	_ = store.Insert(ctx, domain.RawRecord{})
	if store.SourceID() == before {
		t.Error("SourceID should change after insert")
	}
}

func TestRecordStore_LoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRecordStore("x").Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
