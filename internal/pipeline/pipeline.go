package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/observability"
)

// RecordSource reads every raw record of one input.
type RecordSource interface {
	Records(ctx context.Context) ([]domain.RawRecord, error)
}

// Corrector locates a single raw record.
type Corrector interface {
	Correct(ctx context.Context, raw domain.RawRecord) domain.LocationRecord
}

// Loader writes the outcome of a run to a destination.
type Loader interface {
	Load(ctx context.Context, res domain.Result) error
}

// Loaders fans a result out to several destinations in order.
type Loaders []Loader

// Load calls every loader, even after a failure, and joins their errors.
func (ls Loaders) Load(ctx context.Context, res domain.Result) error {
	var errs []error
	for _, l := range ls {
		if err := l.Load(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Settings are the run-wide checks applied after correction.
type Settings struct {
	Bounds    domain.Bounds
	Overrides domain.Overrides
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgress registers fn to be called after each record is corrected.
func WithProgress(fn func(done, total int)) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// WithLoadAttempts sets how many times a failed load is tried in total.
func WithLoadAttempts(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.loadAttempts = n
		}
	}
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline orchestrates one correction run: extract, correct, override,
// filter, load.
type Pipeline struct {
	source       RecordSource
	corrector    Corrector
	loader       Loader
	settings     Settings
	logger       *slog.Logger
	metrics      *observability.Metrics
	clock        clockwork.Clock
	progress     func(done, total int)
	loadAttempts int

	ready     atomic.Bool
	running   atomic.Bool
	total     atomic.Int64
	processed atomic.Int64

	mu   sync.Mutex
	last *Report
}

// New creates a Pipeline with the given stages and observability.
func New(src RecordSource, c Corrector, l Loader, settings Settings, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:       src,
		corrector:    c,
		loader:       l,
		settings:     settings,
		logger:       logger,
		metrics:      metrics,
		clock:        clock,
		loadAttempts: 3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the run has read its input, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any records yet")
	}
	return nil
}

// Status is a point-in-time view of a run, served on the status endpoint.
type Status struct {
	Running   bool    `json:"running"`
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Report    *Report `json:"report,omitempty"`
}

// Status reports progress of the current run and the last finished report.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()
	return Status{
		Running:   p.running.Load(),
		Total:     int(p.total.Load()),
		Processed: int(p.processed.Load()),
		Report:    last,
	}
}

// Run corrects every record of the source and loads the result. Record-level
// failures end up in the report's rejections; an error is returned only when
// the source cannot be read, the context is cancelled, or loading fails.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := p.clock.Now()
	p.logger.Info("pipeline started")
	p.running.Store(true)
	p.metrics.PipelineRunning.Set(1)
	defer func() {
		p.running.Store(false)
		p.metrics.PipelineRunning.Set(0)
	}()

	raws, err := p.source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	p.total.Store(int64(len(raws)))
	p.processed.Store(0)
	p.ready.Store(true)
	p.logger.Info("records loaded", "count", len(raws))

	records := make([]domain.LocationRecord, 0, len(raws))
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, p.corrector.Correct(ctx, raw))
		done := p.processed.Add(1)
		p.metrics.RecordsProcessed.Inc()
		if p.progress != nil {
			p.progress(int(done), len(raws))
		}
	}

	overridden := p.settings.Overrides.Apply(records)
	if overridden > 0 {
		p.logger.Info("manual overrides applied", "count", overridden)
	}

	byTag := make(map[domain.CorrectionTag]int)
	for i := range records {
		byTag[records[i].Tag]++
		p.metrics.CorrectionTags.WithLabelValues(string(records[i].Tag)).Inc()
	}

	res := domain.Partition(records, p.settings.Bounds)
	for _, rj := range res.Rejected {
		p.logger.Warn("record rejected",
			"row", rj.Record.Row,
			"policy_id", rj.Record.PolicyID,
			"proposal_id", rj.Record.ProposalID,
			"place", rj.Record.Place,
			"region", rj.Record.Region,
			"correction_tag", rj.Record.Tag,
			"reason", rj.Reason,
		)
		p.metrics.Rejections.WithLabelValues(string(rj.Reason)).Inc()
	}

	if err := p.load(ctx, res); err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	p.metrics.RecordsAccepted.Add(float64(len(res.Accepted)))

	report := &Report{
		Initial:    len(raws),
		Final:      len(res.Accepted),
		ByTag:      byTag,
		Overridden: overridden,
		Rejected:   res.Rejected,
		StartedAt:  start,
		FinishedAt: p.clock.Now(),
	}
	p.metrics.RunDuration.Observe(report.Duration().Seconds())
	p.mu.Lock()
	p.last = report
	p.mu.Unlock()

	p.logger.Info("pipeline finished",
		"initial", report.Initial,
		"final", report.Final,
		"rejected", len(report.Rejected),
		"duration", report.Duration(),
	)
	return report, nil
}

// load delivers the result to each destination, retrying a failing one with
// exponential backoff. Destinations that already succeeded are not called
// again, so a broker publish is never repeated because a file write failed.
func (p *Pipeline) load(ctx context.Context, res domain.Result) error {
	targets, ok := p.loader.(Loaders)
	if !ok {
		targets = Loaders{p.loader}
	}
	var errs []error
	for _, l := range targets {
		if err := p.loadWithRetry(ctx, l, res); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Pipeline) loadWithRetry(ctx context.Context, l Loader, res domain.Result) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= p.loadAttempts; attempt++ {
		if err = l.Load(ctx, res); err == nil {
			return nil
		}
		if attempt == p.loadAttempts || ctx.Err() != nil {
			break
		}
		p.logger.Error("load failed, retrying", "error", err, "attempt", attempt, "backoff", backoff)
		if !p.sleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
	return err
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}

func (p *Pipeline) sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
