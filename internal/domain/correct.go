package domain

import (
	"context"
	"log/slog"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/geofix/internal/region"
)

// Regions gives the corrector access to region boundaries and their
// fallback centroids. *region.Index satisfies it.
type Regions interface {
	Geometry(code string) (orb.Geometry, bool)
	Centroid(code string) (orb.Point, bool)
}

// Corrector turns raw records into located records, escalating from the
// given coordinate to place-name lookups to the region centroid.
type Corrector struct {
	parser  *Parser
	regions Regions
	lookup  PlaceLookup
	prefix  string
	logger  *slog.Logger
}

// NewCorrector creates a Corrector. A nil lookup disables place-name
// lookups; every lookup is then treated as not found.
func NewCorrector(parser *Parser, regions Regions, lookup PlaceLookup, regionPrefix string, logger *slog.Logger) *Corrector {
	return &Corrector{
		parser:  parser,
		regions: regions,
		lookup:  lookup,
		prefix:  regionPrefix,
		logger:  logger,
	}
}

// Correct runs one record through the correction steps:
//
//  1. parse both coordinate tokens; on failure try the primary place lookup
//  2. accept the coordinate if it lies inside the declared region
//  3. otherwise try the secondary place lookup and accept it if contained
//  4. otherwise snap to the region centroid
//  5. otherwise mark the record as rejected
//
// A record whose region has no boundary skips steps 2 to 4. Lookup and parse
// failures are recovered here and never returned.
func (c *Corrector) Correct(ctx context.Context, raw RawRecord) LocationRecord {
	rec := NewLocationRecord(raw, c.prefix)

	coord, err := c.parser.ParseCoordinate(raw.Latitude, raw.Longitude)
	if err == nil {
		rec.Coordinate = &coord
		rec.mark(StageParsed)
	} else {
		c.logger.Debug("coordinate parse failed",
			"row", rec.Row,
			"proposal_id", rec.ProposalID,
			"error", err,
		)
		rec.mark(StageParseFailed)
		rec.mark(StagePrimaryLookup)
		if found, ok := c.resolve(ctx, rec, PrimaryQuery); ok {
			rec.adopt(found, TagGeocoded)
		}
	}

	geom, ok := c.regions.Geometry(rec.RegionCode)
	if !ok {
		rec.mark(StageGeometryMissing)
		return c.reject(rec)
	}

	if rec.Coordinate != nil {
		if region.Contains(geom, rec.Coordinate.Point()) {
			rec.mark(StageContained)
			rec.InsideRegion = true
			if rec.Tag == TagEmpty {
				rec.Tag = TagOriginal
			}
			return rec
		}
		rec.mark(StageNotContained)
	}

	rec.mark(StageSecondaryLookup)
	if found, ok := c.resolve(ctx, rec, SecondaryQuery); ok && region.Contains(geom, found.Point()) {
		rec.adopt(found, TagGeocodedSecondTry)
		rec.InsideRegion = true
		return rec
	}

	if p, ok := c.regions.Centroid(rec.RegionCode); ok {
		rec.mark(StageCentroidFallback)
		rec.adopt(CoordinateFromPoint(p), TagCentroidAssigned)
		rec.InsideRegion = true
		return rec
	}

	return c.reject(rec)
}

func (c *Corrector) reject(rec LocationRecord) LocationRecord {
	rec.mark(StageRejected)
	rec.InsideRegion = false
	if rec.Tag == TagEmpty {
		rec.Tag = TagNone
	}
	c.logger.Debug("record could not be placed inside its region",
		"row", rec.Row,
		"policy_id", rec.PolicyID,
		"proposal_id", rec.ProposalID,
		"place", rec.Place,
		"region", rec.RegionCode,
	)
	return rec
}

// resolve asks the lookup for the record's place. Failures and out-of-range
// answers are logged and reported as not found.
func (c *Corrector) resolve(ctx context.Context, rec LocationRecord, v QueryVariant) (Coordinate, bool) {
	if c.lookup == nil || rec.Place == "" || rec.Region == "" {
		return Coordinate{}, false
	}

	q := PlaceQuery{Place: rec.Place, Region: rec.Region, Variant: v}
	found, ok, err := c.lookup.Resolve(ctx, q)
	if err != nil {
		c.logger.Warn("place lookup failed",
			"place", q.Place,
			"region", q.Region,
			"variant", v.String(),
			"error", err,
		)
		return Coordinate{}, false
	}
	if !ok {
		return Coordinate{}, false
	}
	if !found.Valid() {
		c.logger.Warn("place lookup returned out-of-range coordinate",
			"place", q.Place,
			"region", q.Region,
			"variant", v.String(),
			"coordinate", found.String(),
		)
		return Coordinate{}, false
	}
	return found, true
}
