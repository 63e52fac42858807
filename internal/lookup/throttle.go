package lookup

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geofix/internal/domain"
)

// Throttle enforces a minimum interval between the starts of consecutive
// calls to the wrapped lookup. Calls are serialized; a caller waiting for
// its turn gives up when its context is cancelled.
type Throttle struct {
	inner    domain.PlaceLookup
	interval time.Duration
	clock    clockwork.Clock

	mu   sync.Mutex
	last time.Time
}

// NewThrottle wraps inner so that calls start at least interval apart.
func NewThrottle(inner domain.PlaceLookup, interval time.Duration, clock clockwork.Clock) *Throttle {
	return &Throttle{
		inner:    inner,
		interval: interval,
		clock:    clock,
	}
}

// Resolve waits for the interval to elapse since the previous call, then
// delegates to the wrapped lookup.
func (t *Throttle) Resolve(ctx context.Context, q domain.PlaceQuery) (domain.Coordinate, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		if wait := t.interval - t.clock.Since(t.last); wait > 0 {
			timer := t.clock.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return domain.Coordinate{}, false, ctx.Err()
			case <-timer.Chan():
			}
		}
	}

	t.last = t.clock.Now()
	return t.inner.Resolve(ctx, q)
}
