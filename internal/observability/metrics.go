package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the relay.
type Metrics struct {
	TurnsTotal       *prometheus.CounterVec
	HeuristicMatches *prometheus.CounterVec
	BrainLatency     prometheus.Histogram
	BrainFailures    *prometheus.CounterVec
	ReplyChunks      prometheus.Histogram
	KnownUsers       prometheus.Gauge
	WebhookRequests  *prometheus.CounterVec
	MediaItems       *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TurnsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Handled turns by reply path.",
		}, []string{"path"}),
		HeuristicMatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heuristic_matches_total",
			Help:      "Heuristic short-circuit replies by rule.",
		}, []string{"rule"}),
		BrainLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "brain_latency_ms",
			Help:      "Remote model completion latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		}),
		BrainFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brain_failures_total",
			Help:      "Remote model failures by tagged reason.",
		}, []string{"reason"}),
		ReplyChunks: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_chunks",
			Help:      "Outbound messages produced per reply after chunking.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12},
		}),
		KnownUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "known_users",
			Help:      "Users with in-process conversational state.",
		}),
		WebhookRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_requests_total",
			Help:      "Inbound webhook requests by kind.",
		}, []string{"kind"}),
		MediaItems: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_items_total",
			Help:      "Inbound media items by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveBrainLatency(d time.Duration) {
	m.BrainLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
