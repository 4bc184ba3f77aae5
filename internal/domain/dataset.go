package domain

import "time"

// Dataset is the normalized working set loaded from one source.
// It is never mutated after construction; accessors hand out copies.
type Dataset struct {
	sourceID string
	loadedAt time.Time
	records  []TransactionRecord
	dropped  int
}

// NewDataset creates a dataset owning a copy of records.
func NewDataset(sourceID string, records []TransactionRecord, dropped int, loadedAt time.Time) *Dataset {
	cp := make([]TransactionRecord, len(records))
	copy(cp, records)
	return &Dataset{
		sourceID: sourceID,
		loadedAt: loadedAt,
		records:  cp,
		dropped:  dropped,
	}
}

// SourceID identifies the source the dataset was loaded from.
func (d *Dataset) SourceID() string {
	if d == nil {
		return ""
	}
	return d.sourceID
}

// LoadedAt returns the load timestamp.
func (d *Dataset) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loadedAt
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Dropped returns how many raw rows were discarded during normalization.
func (d *Dataset) Dropped() int {
	if d == nil {
		return 0
	}
	return d.dropped
}

// Records returns a copy of the records in load order.
func (d *Dataset) Records() []TransactionRecord {
	if d == nil {
		return nil
	}
	cp := make([]TransactionRecord, len(d.records))
	copy(cp, d.records)
	return cp
}

// DateRange returns the earliest and latest ConfirmedDate.
// ok is false for an empty dataset.
func (d *Dataset) DateRange() (first, last time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = d.records[0].ConfirmedDate, d.records[0].ConfirmedDate
	for i := range d.records {
		t := d.records[i].ConfirmedDate
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return first, last, true
}
