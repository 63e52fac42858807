package domain

import "strings"

// Overrides maps a proposal id to a coordinate supplied by an operator.
type Overrides map[string]Coordinate

// Apply forces every record whose proposal id is listed to the override
// coordinate and returns how many records changed. Overridden records count
// as placed inside their region; the national bounds still apply afterwards.
func (o Overrides) Apply(records []LocationRecord) int {
	if len(o) == 0 {
		return 0
	}
	n := 0
	for i := range records {
		c, ok := o[strings.TrimSpace(records[i].ProposalID)]
		if !ok {
			continue
		}
		records[i].adopt(c, TagManualOverride)
		records[i].InsideRegion = true
		records[i].mark(StageManualOverride)
		n++
	}
	return n
}
