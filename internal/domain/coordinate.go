package domain

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Axis selects which component a raw token describes. It decides the valid
// range and which hemisphere markers are meaningful.
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

// Limit returns the absolute bound for the axis: 90 for latitude, 180 for longitude.
func (a Axis) Limit() float64 {
	if a == Longitude {
		return 180
	}
	return 90
}

func (a Axis) String() string {
	if a == Longitude {
		return "longitude"
	}
	return "latitude"
}

// InRange reports whether v is a finite value within the axis bounds.
// NaN fails every comparison and is therefore rejected.
func (a Axis) InRange(v float64) bool {
	lim := a.Limit()
	return v >= -lim && v <= lim
}

// Coordinate is a signed decimal-degree pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CoordinateFromPoint converts an orb point ([lon, lat]) to a Coordinate.
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lon: p.Lon()}
}

// Point returns the coordinate in GeoJSON axis order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// Valid reports whether both components are within their axis ranges.
func (c Coordinate) Valid() bool {
	return Latitude.InRange(c.Lat) && Longitude.InRange(c.Lon)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
