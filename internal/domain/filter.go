package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds is a latitude/longitude box. Edges are inclusive.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BrazilBounds is the national box applied after correction.
var BrazilBounds = Bounds{MinLat: -34, MaxLat: 5, MinLon: -74, MaxLon: -34}

// ParseBounds reads "minLat,maxLat,minLon,maxLon".
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bounds %q: want minLat,maxLat,minLon,maxLon", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("bounds %q: %w", s, err)
		}
		v[i] = f
	}
	b := Bounds{MinLat: v[0], MaxLat: v[1], MinLon: v[2], MaxLon: v[3]}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return Bounds{}, fmt.Errorf("bounds %q: minimum exceeds maximum", s)
	}
	return b, nil
}

// Contains reports whether c lies inside the box.
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
}

// RejectReason says why a record was dropped from the output.
type RejectReason string

const (
	ReasonNoCoordinate  RejectReason = "no_coordinate"
	ReasonOutsideBounds RejectReason = "outside_bounds"
	ReasonOutsideRegion RejectReason = "outside_region"
)

// Rejection is a dropped record and its reason.
type Rejection struct {
	Record LocationRecord `json:"record"`
	Reason RejectReason   `json:"reason"`
}

// Partition splits corrected records into accepted and rejected, preserving
// input order in both. A record is kept only when it holds a coordinate
// inside b and was placed inside its region.
func Partition(records []LocationRecord, b Bounds) Result {
	var res Result
	for _, r := range records {
		switch {
		case r.Coordinate == nil:
			res.Rejected = append(res.Rejected, Rejection{Record: r, Reason: ReasonNoCoordinate})
		case !b.Contains(*r.Coordinate):
			res.Rejected = append(res.Rejected, Rejection{Record: r, Reason: ReasonOutsideBounds})
		case !r.InsideRegion:
			res.Rejected = append(res.Rejected, Rejection{Record: r, Reason: ReasonOutsideRegion})
		default:
			res.Accepted = append(res.Accepted, r)
		}
	}
	return res
}
