// Package region indexes administrative boundaries and answers the two
// geometric questions the correction pipeline asks: is a point inside a
// region, and where is a safe fallback point for a region.
//
// Geometry follows GeoJSON conventions: points are [lon, lat] and every
// polygon is an ordered list of rings, the first being the outer boundary and
// the rest holes. Only Polygon and MultiPolygon are understood.
package region

import "github.com/paulmach/orb"

// rayEpsilon is added to each edge's vertical extent in the ray-casting test
// so a horizontal edge never divides by zero. Points lying exactly on a
// boundary have no defined answer.
const rayEpsilon = 1e-16

// Contains reports whether pt lies inside g. A multi-polygon contains pt when
// any of its parts does. Geometry kinds other than polygon and multi-polygon
// never contain anything.
func Contains(g orb.Geometry, pt orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return polygonContains(geom, pt)
	case orb.MultiPolygon:
		for _, poly := range geom {
			if polygonContains(poly, pt) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// polygonContains requires pt inside the outer ring and outside every hole.
func polygonContains(poly orb.Polygon, pt orb.Point) bool {
	if len(poly) == 0 || !ringContains(poly[0], pt) {
		return false
	}
	for _, hole := range poly[1:] {
		if ringContains(hole, pt) {
			return false
		}
	}
	return true
}

// ringContains casts a horizontal ray from pt and counts edge crossings.
func ringContains(ring orb.Ring, pt orb.Point) bool {
	x, y := pt.Lon(), pt.Lat()
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon(), ring[i].Lat()
		xj, yj := ring[j].Lon(), ring[j].Lat()
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi+rayEpsilon)+xi {
			inside = !inside
		}
	}
	return inside
}
