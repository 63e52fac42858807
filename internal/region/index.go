package region

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrNoRegions is returned when a boundary dataset yields no indexable region.
var ErrNoRegions = errors.New("no indexable regions")

// CodeProperties are the feature properties consulted for a region code, in
// priority order. The first present, non-empty value wins.
var CodeProperties = []string{"id", "ID", "code", "uf"}

// fallback is a cached centroid lookup result. Regions without a computable
// centroid are recorded with ok=false so the estimate is never retried.
type fallback struct {
	point orb.Point
	ok    bool
}

// Index maps region codes to boundary geometry and fallback centroids.
// It is built once and read-only afterwards, so concurrent reads are safe.
type Index struct {
	geometries map[string]orb.Geometry
	centroids  map[string]fallback
}

// Load reads a GeoJSON FeatureCollection from path and indexes it.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}
	ix, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

// Parse decodes a GeoJSON FeatureCollection and indexes it.
func Parse(data []byte) (*Index, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}
	return NewIndex(fc)
}

// NewIndex indexes every feature that carries both a geometry and a region
// code. A later feature with the same code replaces an earlier one.
func NewIndex(fc *geojson.FeatureCollection) (*Index, error) {
	ix := &Index{
		geometries: make(map[string]orb.Geometry),
		centroids:  make(map[string]fallback),
	}
	if fc != nil {
		for _, f := range fc.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			code, ok := regionCode(f.Properties)
			if !ok {
				continue
			}
			ix.geometries[code] = f.Geometry
		}
	}
	if len(ix.geometries) == 0 {
		return nil, ErrNoRegions
	}

	for code, g := range ix.geometries {
		p, ok := Centroid(g)
		ix.centroids[code] = fallback{point: p, ok: ok}
	}
	return ix, nil
}

// Geometry returns the boundary indexed under code.
func (ix *Index) Geometry(code string) (orb.Geometry, bool) {
	g, ok := ix.geometries[strings.ToUpper(code)]
	return g, ok
}

// Centroid returns the cached fallback point for code. It reports false both
// for unknown codes and for regions whose centroid could not be estimated.
func (ix *Index) Centroid(code string) (orb.Point, bool) {
	c := ix.centroids[strings.ToUpper(code)]
	return c.point, c.ok
}

// Codes returns the indexed region codes in sorted order.
func (ix *Index) Codes() []string {
	codes := make([]string, 0, len(ix.geometries))
	for code := range ix.geometries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of indexed regions.
func (ix *Index) Len() int { return len(ix.geometries) }

func regionCode(props geojson.Properties) (string, bool) {
	for _, name := range CodeProperties {
		v, ok := props[name]
		if !ok || isBlank(v) {
			continue
		}
		return strings.ToUpper(strings.TrimSpace(fmt.Sprint(v))), true
	}
	return "", false
}

// isBlank treats missing, empty, zero and false property values as absent.
func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case float64:
		return x == 0
	case bool:
		return !x
	default:
		return false
	}
}
