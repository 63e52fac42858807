package lookup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/geofix/internal/domain"
)

// countingLookup answers every query with the same result and counts calls.
type countingLookup struct {
	calls atomic.Int32
	coord domain.Coordinate
	found bool
	err   error

	// gate, when set, blocks each call until it is closed.
	gate chan struct{}
}

func (l *countingLookup) Resolve(ctx context.Context, _ domain.PlaceQuery) (domain.Coordinate, bool, error) {
	l.calls.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	if l.err != nil {
		return domain.Coordinate{}, false, l.err
	}
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, false, err
	}
	return l.coord, l.found, nil
}

// memStore is an in-memory Store.
type memStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	getErr  error
	putErr  error
	puts    int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]Entry)}
}

func (s *memStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return Entry{}, false, s.getErr
	}
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *memStore) Put(_ context.Context, key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.entries[key] = e
	return nil
}

var errUnavailable = errors.New("service unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	chapeco   = domain.PlaceQuery{Place: "Chapecó", Region: "SC", Variant: domain.PrimaryQuery}
	chapecoC  = domain.Coordinate{Lat: -27.1, Lon: -52.6}
	joinville = domain.PlaceQuery{Place: "Joinville", Region: "SC", Variant: domain.PrimaryQuery}
)
