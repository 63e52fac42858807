package file

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/geofix/internal/domain"
)

// LoadOverrides reads a JSON object mapping proposal ids to coordinates:
//
//	{"PI-123": {"lat": -27.1, "lon": -52.6}}
//
// Every coordinate must be within the valid latitude/longitude ranges.
func LoadOverrides(path string) (domain.Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	var raw map[string]domain.Coordinate
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode overrides %s: %w", path, err)
	}

	o := make(domain.Overrides, len(raw))
	for id, c := range raw {
		if !c.Valid() {
			return nil, fmt.Errorf("override %q: coordinate %s out of range", id, c)
		}
		o[strings.TrimSpace(id)] = c
	}
	return o, nil
}
