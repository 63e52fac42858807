package region

import "github.com/paulmach/orb"

// Centroid returns the unweighted mean of the vertices of the first outer ring
// of g (the first polygon's outer ring for a multi-polygon).
//
// This is not an area centroid. Closing vertices are counted like any other,
// and for concave or multi-part regions the mean can fall outside the region.
// It exists only as a deterministic fallback position.
func Centroid(g orb.Geometry) (orb.Point, bool) {
	var ring orb.Ring
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) > 0 {
			ring = geom[0]
		}
	case orb.MultiPolygon:
		if len(geom) > 0 && len(geom[0]) > 0 {
			ring = geom[0][0]
		}
	}
	if len(ring) == 0 {
		return orb.Point{}, false
	}

	var sumLon, sumLat float64
	for _, p := range ring {
		sumLon += p.Lon()
		sumLat += p.Lat()
	}
	n := float64(len(ring))
	return orb.Point{sumLon / n, sumLat / n}, true
}
