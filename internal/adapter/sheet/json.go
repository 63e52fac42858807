package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/couchcryptid/geofix/internal/domain"
)

// JSON reads records from an array of row objects keyed by header name.
// Coordinate values keep their JSON type, so numbers reach the parser as
// numbers rather than text.
type JSON struct {
	path string
}

// NewJSON creates a JSON source.
func NewJSON(path string) *JSON {
	return &JSON{path: path}
}

// Records decodes the whole file.
func (j *JSON) Records(ctx context.Context) ([]domain.RawRecord, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil, fmt.Errorf("read json %s: %w", j.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json %s: %w", j.path, err)
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := jsonRecord(i+1, row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", j.path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// jsonRecord maps one object. Missing required keys fail the same way a
// missing spreadsheet column does.
func jsonRecord(n int, row map[string]any) (domain.RawRecord, error) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = row[k]
	}
	l, err := resolveLayout(keys)
	if err != nil {
		return domain.RawRecord{}, fmt.Errorf("row %d: %w", n, err)
	}

	text := func(f field) string {
		i := l[f]
		if i < 0 || values[i] == nil {
			return ""
		}
		return fmt.Sprint(values[i])
	}
	raw := func(f field) any {
		if i := l[f]; i >= 0 {
			return values[i]
		}
		return nil
	}

	return domain.RawRecord{
		Row:        n,
		PolicyID:   text(fieldPolicy),
		ProposalID: text(fieldProposal),
		Place:      text(fieldPlace),
		Region:     text(fieldRegion),
		Latitude:   raw(fieldLatitude),
		Longitude:  raw(fieldLongitude),
		Category:   text(fieldCategory),
		Status:     text(fieldStatus),
		Owner:      text(fieldOwner),
		Area:       text(fieldArea),
	}, nil
}
