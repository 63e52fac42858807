// Package sheet reads location records from spreadsheets, CSV and JSON
// exports. Columns are found by header name, ignoring case and accents.
package sheet

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/textnorm"
)

type field int

const (
	fieldPolicy field = iota
	fieldProposal
	fieldPlace
	fieldRegion
	fieldLatitude
	fieldLongitude
	fieldCategory
	fieldStatus
	fieldOwner
	fieldArea
	numFields
)

// columns lists the recognized headers as they appear in the source workbook.
var columns = [numFields]struct {
	header   string
	required bool
}{
	fieldPolicy:    {"APÓLICE", true},
	fieldProposal:  {"NUMERO_PI", true},
	fieldPlace:     {"Municipio", true},
	fieldRegion:    {"UF", true},
	fieldLatitude:  {"LATITUDE", true},
	fieldLongitude: {"LONGITUDE", true},
	fieldCategory:  {"CULTURA", false},
	fieldStatus:    {"STATUS", false},
	fieldOwner:     {"NOME", false},
	fieldArea:      {"ÁREA GARANTIDA (ha)", false},
}

// layout maps each field to its column index, or -1 when absent.
type layout [numFields]int

// resolveLayout finds every known column in a header row. The first
// occurrence of a repeated header wins.
func resolveLayout(header []string) (layout, error) {
	var l layout
	for i := range l {
		l[i] = -1
	}

	byName := make(map[string]field, numFields)
	for f, c := range columns {
		byName[headerKey(c.header)] = field(f)
	}
	for i, h := range header {
		f, ok := byName[headerKey(h)]
		if ok && l[f] == -1 {
			l[f] = i
		}
	}

	var missing []string
	for f, c := range columns {
		if c.required && l[f] == -1 {
			missing = append(missing, c.header)
		}
	}
	if len(missing) > 0 {
		return l, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return l, nil
}

func headerKey(h string) string {
	return textnorm.Fold(strings.TrimPrefix(h, "\ufeff"))
}

func (l layout) cell(cells []string, f field) string {
	i := l[f]
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// record builds a raw record from a row of text cells. Coordinate cells are
// passed through as strings for the parser.
func (l layout) record(row int, cells []string) domain.RawRecord {
	return domain.RawRecord{
		Row:        row,
		PolicyID:   l.cell(cells, fieldPolicy),
		ProposalID: l.cell(cells, fieldProposal),
		Place:      l.cell(cells, fieldPlace),
		Region:     l.cell(cells, fieldRegion),
		Latitude:   l.cell(cells, fieldLatitude),
		Longitude:  l.cell(cells, fieldLongitude),
		Category:   l.cell(cells, fieldCategory),
		Status:     l.cell(cells, fieldStatus),
		Owner:      l.cell(cells, fieldOwner),
		Area:       l.cell(cells, fieldArea),
	}
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
