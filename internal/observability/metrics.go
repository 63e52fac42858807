package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "geofix"

// Metrics holds the Prometheus counters, histograms, and gauges for a correction run.
type Metrics struct {
	RecordsProcessed prometheus.Counter
	RecordsAccepted  prometheus.Counter
	PipelineRunning  prometheus.Gauge
	RunDuration      prometheus.Histogram
	RegionsIndexed   prometheus.Gauge

	CorrectionTags *prometheus.CounterVec // labels: tag={original,geocoded,...}
	Rejections     *prometheus.CounterVec // labels: reason={no_coordinate,outside_bounds,outside_region}

	// Place lookup metrics.
	LookupRequests    *prometheus.CounterVec   // labels: provider, variant={primary,secondary}, outcome={found,not_found,error}
	LookupCache       *prometheus.CounterVec   // labels: variant={primary,secondary}, result={hit,miss,store_hit}
	LookupAPIDuration *prometheus.HistogramVec // labels: provider
	LookupEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsProcessed,
		m.RecordsAccepted,
		m.PipelineRunning,
		m.RunDuration,
		m.RegionsIndexed,
		m.CorrectionTags,
		m.Rejections,
		m.LookupRequests,
		m.LookupCache,
		m.LookupAPIDuration,
		m.LookupEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Total records read from the source and run through correction.",
		}),
		RecordsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_accepted_total",
			Help:      "Total records that passed every check and were published.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a correction run is active, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete correction run.",
			Buckets:   []float64{0.1, 1, 5, 15, 60, 300, 900, 3600},
		}),
		RegionsIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "regions_indexed",
			Help:      "Number of region boundaries loaded into the index.",
		}),
		CorrectionTags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correction_tags_total",
			Help:      "Corrected records by the step that produced their coordinate.",
		}, []string{"tag"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Records dropped from the output by reason.",
		}, []string{"reason"}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_requests_total",
			Help:      "Place lookup requests by provider, query variant and outcome.",
		}, []string{"provider", "variant", "outcome"}),
		LookupCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_cache_total",
			Help:      "Place lookup cache consultations by query variant and result.",
		}, []string{"variant", "result"}),
		LookupAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_api_duration_seconds",
			Help:      "Place lookup provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		LookupEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lookup_enabled",
			Help:      "1 when a place lookup provider is configured, 0 otherwise.",
		}),
	}
}
