package sheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/geofix/internal/domain"
)

// Workbook reads records from one sheet of an Excel workbook.
type Workbook struct {
	path  string
	sheet string
}

// NewWorkbook creates a workbook source. An empty sheet selects the first one.
func NewWorkbook(path, sheet string) *Workbook {
	return &Workbook{path: path, sheet: sheet}
}

// Records reads the whole sheet. Cell values are read raw, without the
// workbook's number formatting, so coordinates keep their full precision.
func (w *Workbook) Records(ctx context.Context) ([]domain.RawRecord, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	defer f.Close()

	sheet := w.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, errors.New("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	records, err := rowsToRecords(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s [%s]: %w", w.path, sheet, err)
	}
	return records, nil
}
