// Package domain models location records and the steps that give each one a
// coordinate inside its declared region.
//
// # Coordinate text
//
// Source spreadsheets carry coordinates typed by hand, in several shapes:
//
//	"-23.5"          plain decimal
//	"23,5 S"         comma decimal with a hemisphere letter
//	"23.5 SUL"       hemisphere word (Portuguese by default)
//	"10°30'00\" S"   degrees, minutes, seconds
//	"10:30'00"       DMS with a colon after the degrees
//
// A hemisphere word is searched first (NORTE, SUL, LESTE, OESTE, in that
// order), then a standalone N/S/E/W letter. A value with no marker is read
// according to the configured [UnmarkedPolicy]; the default reads a bare
// positive value as negative because the source data lies entirely south of
// the equator and west of Greenwich.
//
// # Correction
//
// [Corrector.Correct] walks each record through a fixed escalation and tags
// it with the step that produced its final coordinate:
//
//	original             parsed coordinate was inside the region
//	geocoded             parse failed, primary place lookup supplied one
//	geocoded_second_try  secondary lookup phrasing landed inside the region
//	centroid_assigned    region centroid used as a last resort
//	manual_override      coordinate forced by an operator-supplied list
//	none                 nothing worked; the record is rejected
//
// Region codes are the configured prefix ("BR") followed by the record's
// state abbreviation, e.g. "BRSC".
//
// # Filtering
//
// [Partition] keeps only records with a coordinate inside the national box
// that were placed inside their region. Every dropped record is returned
// with a [RejectReason] so it can be reported.
package domain
