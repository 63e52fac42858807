package sheet

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/geofix/internal/domain"
)

// CSV reads records from a delimited text export. The delimiter is ';' when
// the header line has more semicolons than commas, ',' otherwise.
type CSV struct {
	path string
}

// NewCSV creates a CSV source.
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

// Records reads every row of the file.
func (c *CSV) Records(ctx context.Context) ([]domain.RawRecord, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", c.path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := br.Peek(4096)
	if err != nil && len(head) == 0 {
		return nil, fmt.Errorf("%s: no header row", c.path)
	}

	r := csv.NewReader(br)
	r.Comma = detectDelimiter(string(head))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", c.path, err)
	}

	records, err := rowsToRecords(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.path, err)
	}
	return records, nil
}

func detectDelimiter(head string) rune {
	line, _, _ := strings.Cut(head, "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
