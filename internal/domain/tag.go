package domain

// CorrectionTag records how a record's coordinate was obtained.
type CorrectionTag string

const (
	TagEmpty             CorrectionTag = ""
	TagOriginal          CorrectionTag = "original"
	TagGeocoded          CorrectionTag = "geocoded"
	TagGeocodedSecondTry CorrectionTag = "geocoded_second_try"
	TagCentroidAssigned  CorrectionTag = "centroid_assigned"
	TagManualOverride    CorrectionTag = "manual_override"
	TagNone              CorrectionTag = "none"
)

// Tags lists every non-empty tag in escalation order. Reports iterate it to
// print counts in a stable order.
var Tags = []CorrectionTag{
	TagOriginal,
	TagGeocoded,
	TagGeocodedSecondTry,
	TagCentroidAssigned,
	TagManualOverride,
	TagNone,
}

// Stage is one step of the audit trail attached to every record.
type Stage string

const (
	StageParsed           Stage = "parsed"
	StageParseFailed      Stage = "parse_failed"
	StagePrimaryLookup    Stage = "primary_lookup"
	StageContained        Stage = "contained"
	StageNotContained     Stage = "not_contained"
	StageGeometryMissing  Stage = "geometry_missing"
	StageSecondaryLookup  Stage = "secondary_lookup"
	StageCentroidFallback Stage = "centroid_fallback"
	StageRejected         Stage = "rejected"
	StageManualOverride   Stage = "manual_override"
)
