package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"trade-kpi-lab/internal/domain"
	"trade-kpi-lab/internal/storage"
)

// ExcelSource loads one worksheet of an .xlsx workbook. The first row is
// the header.
type ExcelSource struct {
	path  string
	sheet string
}

// NewExcelSource creates an Excel loader. An empty sheet selects the first one.
func NewExcelSource(path, sheet string) *ExcelSource {
	return &ExcelSource{path: path, sheet: sheet}
}

var _ storage.RecordSource = (*ExcelSource)(nil)

// SourceID implements storage.RecordSource.
func (s *ExcelSource) SourceID() string {
	return fileSourceID(s.Kind(), s.path, s.sheet)
}

// Kind implements storage.RecordSource.
func (s *ExcelSource) Kind() string {
	return "excel"
}

var dateFields = map[string]bool{
	domain.FieldConfirmedDate:  true,
	domain.FieldSellerJoinDate: true,
	domain.FieldBuyerJoinDate:  true,
}

// Load reads every row of the sheet. Cells are read raw, so dates stored as
// serial numbers are converted here.
func (s *ExcelSource) Load(ctx context.Context) ([]domain.RawRecord, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: open workbook: %w", s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: %w", s.path, ErrEmptySource)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet %q: %w", s.path, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", s.path, ErrEmptySource)
	}

	fields, err := headerFields(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec := rowRecord(fields, row)
		if len(rec) == 0 {
			continue
		}
		for f := range dateFields {
			if v, ok := rec[f].(string); ok {
				rec[f] = excelDate(v)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// maxExcelSerial keeps compact dates such as 20240301 out of serial parsing.
const maxExcelSerial = 100000

// excelDate converts a serial date to time.Time; other text is returned as is.
func excelDate(v string) any {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 || serial >= maxExcelSerial {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t
}
