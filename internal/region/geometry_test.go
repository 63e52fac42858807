package region

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

// square returns a closed ring covering [minLon,maxLon] x [minLat,maxLat].
func square(minLon, minLat, maxLon, maxLat float64) orb.Ring {
	return orb.Ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}
}

func TestContains_ConvexPolygon(t *testing.T) {
	poly := orb.Polygon{square(-10, -10, 10, 10)}

	assert.True(t, Contains(poly, orb.Point{0, 0}))
	assert.True(t, Contains(poly, orb.Point{-9.5, 9.5}))
	assert.False(t, Contains(poly, orb.Point{50, 50}))
	assert.False(t, Contains(poly, orb.Point{0, -11}))
}

func TestContains_CentroidOfConvexPolygons(t *testing.T) {
	polys := []orb.Polygon{
		{square(-54, -30, -50, -27)},
		{orb.Ring{{0, 0}, {4, 0}, {2, 3}, {0, 0}}},
		{orb.Ring{{-48, -16}, {-47, -16.5}, {-46, -15.5}, {-47, -14.8}, {-48.2, -15.2}, {-48, -16}}},
	}
	for _, poly := range polys {
		c, ok := Centroid(poly)
		assert.True(t, ok)
		assert.True(t, Contains(poly, c), "centroid %v should be inside", c)
	}
}

func TestContains_HoleExcludesPoint(t *testing.T) {
	poly := orb.Polygon{
		square(-10, -10, 10, 10),
		square(-2, -2, 2, 2),
	}

	assert.False(t, Contains(poly, orb.Point{0, 0}), "inside the hole")
	assert.True(t, Contains(poly, orb.Point{5, 5}), "between outer ring and hole")
}

func TestContains_MultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{
		{square(0, 0, 1, 1)},
		{square(10, 10, 11, 11)},
	}

	assert.True(t, Contains(mp, orb.Point{0.5, 0.5}))
	assert.True(t, Contains(mp, orb.Point{10.5, 10.5}))
	assert.False(t, Contains(mp, orb.Point{5, 5}))
}

func TestContains_OverlappingPartsStillContain(t *testing.T) {
	mp := orb.MultiPolygon{
		{square(0, 0, 4, 4), square(1, 1, 3, 3)},
		{square(1.5, 1.5, 2.5, 2.5)},
	}

	// The first part has a hole here, the second part fills it.
	assert.True(t, Contains(mp, orb.Point{2, 2}))
}

func TestContains_UnsupportedGeometry(t *testing.T) {
	assert.False(t, Contains(orb.Point{0, 0}, orb.Point{0, 0}))
	assert.False(t, Contains(orb.LineString{{0, 0}, {1, 1}}, orb.Point{0.5, 0.5}))
	assert.False(t, Contains(square(-1, -1, 1, 1), orb.Point{0, 0}), "bare ring is not a polygon")
	assert.False(t, Contains(nil, orb.Point{0, 0}))
}

func TestContains_EmptyShapes(t *testing.T) {
	assert.False(t, Contains(orb.Polygon{}, orb.Point{0, 0}))
	assert.False(t, Contains(orb.Polygon{orb.Ring{}}, orb.Point{0, 0}))
	assert.False(t, Contains(orb.MultiPolygon{}, orb.Point{0, 0}))
}

func TestContains_HorizontalEdgeDoesNotPanic(t *testing.T) {
	// A ring whose edges are all axis-aligned exercises the zero-height edges.
	poly := orb.Polygon{square(0, 0, 2, 2)}
	assert.NotPanics(t, func() {
		Contains(poly, orb.Point{1, 1})
		Contains(poly, orb.Point{3, 1})
	})
}
