package ingestion

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/storage"
)

// CSVSource loads a delimited text file with a header row.
type CSVSource struct {
	path     string
	encoding Encoding
	used     Encoding
}

// NewCSVSource creates a CSV loader. EncodingAuto detects the encoding.
func NewCSVSource(path string, enc Encoding) *CSVSource {
	return &CSVSource{path: path, encoding: enc}
}

var _ storage.RecordSource = (*CSVSource)(nil)

// SourceID implements storage.RecordSource.
func (s *CSVSource) SourceID() string {
	return fileSourceID(s.Kind(), s.path, string(s.encoding))
}

// Kind implements storage.RecordSource.
func (s *CSVSource) Kind() string {
	return "csv"
}

// Encoding returns the encoding used by the last successful Load.
func (s *CSVSource) Encoding() Encoding {
	return s.used
}

// Load decodes the file and returns one RawRecord per data row.
func (s *CSVSource) Load(ctx context.Context) ([]domain.RawRecord, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	text, used, err := Decode(data, s.encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", s.path, ErrEmptySource)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", s.path, err)
	}
	fields, err := headerFields(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	var records []domain.RawRecord
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", s.path, line, err)
		}
		records = append(records, rowRecord(fields, row))
	}

	s.used = used
	return records, nil
}
