package file

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/geofix/internal/domain"
)

// GeoJSONSink writes accepted records as a FeatureCollection of points,
// ready to be dropped onto a map.
type GeoJSONSink struct {
	path string
}

// NewGeoJSONSink creates a sink writing to path.
func NewGeoJSONSink(path string) *GeoJSONSink {
	return &GeoJSONSink{path: path}
}

// Load writes one point feature per accepted record.
func (s *GeoJSONSink) Load(ctx context.Context, res domain.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := FeatureCollection(res.Accepted).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode feature collection: %w", err)
	}
	return writeFile(s.path, append(b, '\n'))
}

// FeatureCollection converts located records to point features. Records
// without a coordinate are skipped.
func FeatureCollection(records []domain.LocationRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		if r.Coordinate == nil {
			continue
		}
		f := geojson.NewFeature(r.Coordinate.Point())
		f.Properties = geojson.Properties{
			"policy_id":      r.PolicyID,
			"proposal_id":    r.ProposalID,
			"place":          r.Place,
			"region":         r.Region,
			"region_code":    r.RegionCode,
			"category":       r.Category,
			"status":         r.Status,
			"owner":          r.Owner,
			"area":           r.Area,
			"correction_tag": string(r.Tag),
		}
		fc.Append(f)
	}
	return fc
}
