package sheet

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/geofix/internal/domain"
)

// Source yields the raw records of one input file.
type Source interface {
	Records(ctx context.Context) ([]domain.RawRecord, error)
}

// Open picks a source by file extension: .xlsx/.xlsm workbooks, .csv and
// .json. sheet selects a workbook sheet and is ignored for other formats.
func Open(path, sheet string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewWorkbook(path, sheet), nil
	case ".csv":
		return NewCSV(path), nil
	case ".json":
		return NewJSON(path), nil
	default:
		return nil, fmt.Errorf("unsupported input format %q", path)
	}
}

// rowsToRecords maps a header row and data rows to records. Row numbers
// are 1-based as shown in a spreadsheet, with the header on row 1.
func rowsToRecords(ctx context.Context, rows [][]string) ([]domain.RawRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	l, err := resolveLayout(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blank(cells) {
			continue
		}
		records = append(records, l.record(i+2, cells))
	}
	return records, nil
}
