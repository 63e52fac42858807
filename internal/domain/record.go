package domain

import (
	"strings"

	"github.com/couchcryptid/geofix/internal/textnorm"
)

// RawRecord is one input row as read by a record source. Latitude and
// Longitude hold the untyped tokens found in the row (strings from
// spreadsheets and CSV, numbers from JSON) and never reach the output.
type RawRecord struct {
	Row        int
	PolicyID   string
	ProposalID string
	Place      string
	Region     string
	Latitude   any
	Longitude  any
	Category   string
	Status     string
	Owner      string
	Area       string
}

// LocationRecord is a record after correction. Coordinate is nil when no
// usable coordinate could be obtained.
type LocationRecord struct {
	Row          int           `json:"row"`
	PolicyID     string        `json:"policy_id"`
	ProposalID   string        `json:"proposal_id"`
	Place        string        `json:"place"`
	Region       string        `json:"region"`
	RegionCode   string        `json:"region_code"`
	Category     string        `json:"category"`
	Status       string        `json:"status"`
	Owner        string        `json:"owner"`
	Area         string        `json:"area"`
	Coordinate   *Coordinate   `json:"coordinate"`
	InsideRegion bool          `json:"inside_region"`
	Tag          CorrectionTag `json:"correction_tag"`
	Trail        []Stage       `json:"trail"`
}

// NewLocationRecord copies the identifying fields of raw, trimming and
// upper-casing the region, capitalizing the category and prefixing the
// region code. The coordinate tokens are not carried over.
func NewLocationRecord(raw RawRecord, regionPrefix string) LocationRecord {
	region := strings.ToUpper(strings.TrimSpace(raw.Region))
	return LocationRecord{
		Row:        raw.Row,
		PolicyID:   strings.TrimSpace(raw.PolicyID),
		ProposalID: strings.TrimSpace(raw.ProposalID),
		Place:      strings.TrimSpace(raw.Place),
		Region:     region,
		RegionCode: strings.ToUpper(regionPrefix) + region,
		Category:   textnorm.Capitalize(raw.Category),
		Status:     strings.TrimSpace(raw.Status),
		Owner:      strings.TrimSpace(raw.Owner),
		Area:       strings.TrimSpace(raw.Area),
	}
}

func (r *LocationRecord) mark(s Stage) {
	r.Trail = append(r.Trail, s)
}

func (r *LocationRecord) adopt(c Coordinate, tag CorrectionTag) {
	r.Coordinate = &c
	r.Tag = tag
}

// Key identifies a record in logs and message keys.
func (r LocationRecord) Key() string {
	return r.PolicyID + "|" + r.ProposalID
}

// Result is the outcome of a run: records that passed every check and the
// ones that were dropped, each with its reason.
type Result struct {
	Accepted []LocationRecord
	Rejected []Rejection
}
