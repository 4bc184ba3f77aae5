package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/idhash"
	"trade-kpi-lab/internal/storage"
)

// NewFileSource picks a loader by file extension: .csv or .xlsx/.xlsm.
func NewFileSource(path string, enc Encoding) (storage.RecordSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return NewCSVSource(path, enc), nil
	case ".xlsx", ".xlsm":
		return NewExcelSource(path, ""), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// fileSourceID derives a source identity from path, size and modification
// time, so an edited file is a different source.
func fileSourceID(kind, path string, extra ...string) string {
	parts := []string{path}
	if fi, err := os.Stat(path); err == nil {
		parts = append(parts,
			strconv.FormatInt(fi.Size(), 10),
			strconv.FormatInt(fi.ModTime().UnixNano(), 10))
	}
	return idhash.ComputeSourceID(kind, append(parts, extra...)...)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// headerFields resolves a header row; unknown columns map to "".
func headerFields(header []string) ([]string, error) {
	fields := storage.ColumnMap(header)
	for _, f := range fields {
		if f != "" {
			return fields, nil
		}
	}
	return nil, fmt.Errorf("%w: no recognized columns", ErrEmptySource)
}

// rowRecord builds a RawRecord from string cells; empty cells are omitted.
func rowRecord(fields, cells []string) domain.RawRecord {
	rec := make(domain.RawRecord, len(fields))
	for i, f := range fields {
		if f == "" || i >= len(cells) {
			continue
		}
		if v := strings.TrimSpace(cells[i]); v != "" {
			rec[f] = v
		}
	}
	return rec
}
