package wallpaper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "jukebox"
	metricsSubsystem = "rotation"
)

// Metrics holds the rotation metrics.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	ImagesQueued     *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	Rotations        prometheus.Counter
	PreloadFailures  prometheus.Counter
	StaleFetches     prometheus.Counter
	ActiveSessions   prometheus.Gauge
}

// NewMetrics creates and registers the rotation metrics on reg, or on the
// default registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ProviderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "provider_requests_total",
			Help:      "Provider searches by outcome",
		}, []string{"provider", "outcome"}),
		ProviderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of provider searches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		ImagesQueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "images_queued_total",
			Help:      "New images added to session queues",
		}, []string{"provider"}),
		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "fallbacks_total",
			Help:      "Query exhaustion fallbacks by tier",
		}, []string{"tier"}),
		Rotations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "rotations_total",
			Help:      "Wallpaper promotions",
		}),
		PreloadFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "preload_failures_total",
			Help:      "Images skipped because they failed to load",
		}),
		StaleFetches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "stale_fetches_total",
			Help:      "Fetch results dropped because a new search started",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "active_sessions",
			Help:      "Rotation sessions currently open",
		}),
	}
}
