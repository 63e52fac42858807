package pipeline

import (
	"time"

	"github.com/couchcryptid/geofix/internal/domain"
)

// Report summarizes a finished run.
type Report struct {
	Initial    int                          `json:"initial"`
	Final      int                          `json:"final"`
	ByTag      map[domain.CorrectionTag]int `json:"by_tag"`
	Overridden int                          `json:"overridden"`
	Rejected   []domain.Rejection           `json:"rejected"`
	StartedAt  time.Time                    `json:"started_at"`
	FinishedAt time.Time                    `json:"finished_at"`
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RejectedBy counts rejections by reason.
func (r *Report) RejectedBy() map[domain.RejectReason]int {
	out := make(map[domain.RejectReason]int)
	for _, rj := range r.Rejected {
		out[rj.Reason]++
	}
	return out
}
