package domain

import (
	"context"
	"fmt"
)

// QueryVariant selects the phrasing of a place-name query. Providers tend to
// rank results differently for each, so the secondary phrasing is tried when
// the primary answer fell outside the declared region.
type QueryVariant int

const (
	PrimaryQuery QueryVariant = iota
	SecondaryQuery
)

func (v QueryVariant) String() string {
	if v == SecondaryQuery {
		return "secondary"
	}
	return "primary"
}

// PlaceQuery asks for the coordinate of a place within a region.
type PlaceQuery struct {
	Place   string
	Region  string
	Variant QueryVariant
}

// Text renders the free-form query sent to a provider:
//
//	primary:   "Chapecó, SC, Brasil"
//	secondary: "Chapecó - SC, Brasil"
func (q PlaceQuery) Text(country string) string {
	if q.Variant == SecondaryQuery {
		return fmt.Sprintf("%s - %s, %s", q.Place, q.Region, country)
	}
	return fmt.Sprintf("%s, %s, %s", q.Place, q.Region, country)
}

// PlaceLookup resolves a place name to a coordinate. The boolean result is
// false when the place is unknown to the provider.
type PlaceLookup interface {
	Resolve(ctx context.Context, q PlaceQuery) (Coordinate, bool, error)
}
