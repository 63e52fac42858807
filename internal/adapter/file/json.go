// Package file writes run results to local files and reads the manual
// override list.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/geofix/internal/domain"
)

// JSONSink writes accepted records as an indented JSON array.
type JSONSink struct {
	path string
}

// NewJSONSink creates a sink writing to path.
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

// Load writes the accepted records, replacing any previous file.
func (s *JSONSink) Load(ctx context.Context, res domain.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := res.Accepted
	if records == nil {
		records = []domain.LocationRecord{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return writeFile(s.path, append(b, '\n'))
}

// writeFile replaces path through a temporary file in the same directory so
// a failed run never leaves a truncated output behind.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
