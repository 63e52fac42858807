package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/geofix/internal/domain"
)

// RejectedHeader is the header row of the rejection report. The first
// columns reuse the input header names so the report can be matched back to
// the source workbook.
var RejectedHeader = []string{
	"APÓLICE", "NUMERO_PI", "Municipio", "UF", "LATITUDE", "LONGITUDE", "COORD_CORRECTION", "REASON",
}

// RejectedCSV writes the dropped records as CSV.
type RejectedCSV struct {
	path string
}

// NewRejectedCSV creates a rejection report writer.
func NewRejectedCSV(path string) *RejectedCSV {
	return &RejectedCSV{path: path}
}

// Load writes one row per rejection. The file is written even when nothing
// was rejected, so a stale report is never mistaken for the current one.
func (s *RejectedCSV) Load(ctx context.Context, res domain.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteRejections(&buf, res.Rejected); err != nil {
		return err
	}
	return writeFile(s.path, buf.Bytes())
}

// WriteRejections encodes rejections as CSV rows with RejectedHeader.
func WriteRejections(w io.Writer, rejections []domain.Rejection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RejectedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rj := range rejections {
		r := rj.Record
		lat, lon := "", ""
		if r.Coordinate != nil {
			lat = strconv.FormatFloat(r.Coordinate.Lat, 'f', -1, 64)
			lon = strconv.FormatFloat(r.Coordinate.Lon, 'f', -1, 64)
		}
		row := []string{r.PolicyID, r.ProposalID, r.Place, r.Region, lat, lon, string(r.Tag), string(rj.Reason)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
