package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the dashboard.
type Metrics struct {
	// DONKI API fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: type={CME,FLR,GST}, outcome={success,error,not_array}
	FetchDuration *prometheus.HistogramVec // labels: type
	EventsFetched *prometheus.CounterVec   // labels: type

	// Page builds.
	Renders *prometheus.CounterVec // labels: type, result={events,empty}

	// Event feed.
	PublishedEvents prometheus.Counter
	PublishErrors   prometheus.Counter
	FeedEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.EventsFetched,
		m.Renders,
		m.PublishedEvents,
		m.PublishErrors,
		m.FeedEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donki_dashboard",
			Name:      "fetch_requests_total",
			Help:      "DONKI API requests by event type and outcome.",
		}, []string{"type", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "donki_dashboard",
			Name:      "fetch_duration_seconds",
			Help:      "DONKI API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"type"}),
		EventsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donki_dashboard",
			Name:      "events_fetched_total",
			Help:      "Events decoded from DONKI API responses.",
		}, []string{"type"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donki_dashboard",
			Name:      "renders_total",
			Help:      "Dashboard pages built, by event type and whether any events were found.",
		}, []string{"type", "result"}),
		PublishedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "donki_dashboard",
			Name:      "published_events_total",
			Help:      "Events written to the Kafka event feed.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "donki_dashboard",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka event feed writes.",
		}),
		FeedEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "donki_dashboard",
			Name:      "feed_enabled",
			Help:      "1 when the Kafka event feed is enabled, 0 otherwise.",
		}),
	}
}
