package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	casesRouted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconnect_cases_routed_total",
			Help: "Routing attempts by outcome.",
		},
		[]string{"outcome"},
	)

	routeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "legalconnect_route_duration_seconds",
		Help:    "Time spent matching a case to a practitioner.",
		Buckets: prometheus.DefBuckets,
	})

	caseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconnect_case_transitions_total",
			Help: "Case lifecycle transitions by edge.",
		},
		[]string{"from", "to"},
	)

	payoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconnect_payouts_total",
			Help: "Payout state changes by resulting status.",
		},
		[]string{"status"},
	)

	payoutNetPaise = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "legalconnect_payout_net_paise_total",
		Help: "Net paise handed to the gateway for transfer.",
	})

	webhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconnect_webhook_events_total",
			Help: "Gateway webhook deliveries by event and whether they changed state.",
		},
		[]string{"event", "applied"},
	)

	sweepRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconnect_sweep_rows_total",
			Help: "Rows touched by background sweeps.",
		},
		[]string{"sweep"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconnect_cache_hits_total",
			Help: "Cache hits by entity.",
		},
		[]string{"entity"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalconnect_cache_misses_total",
			Help: "Cache misses by entity.",
		},
		[]string{"entity"},
	)
)

// Init registers the collectors with the default registry.
func Init() {
	prometheus.MustRegister(
		casesRouted,
		routeDuration,
		caseTransitions,
		payoutsTotal,
		payoutNetPaise,
		webhookEvents,
		sweepRows,
		cacheHits,
		cacheMisses,
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics feeds service events into the Prometheus collectors. It satisfies
// the collector interfaces declared by the service packages.
type Metrics struct{}

func NewMetrics() *Metrics { return &Metrics{} }

func (m *Metrics) RecordRouteResult(outcome string) {
	casesRouted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordRouteDuration(d time.Duration) {
	routeDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordTransition(from, to string) {
	caseTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RecordPayoutStatus(status string) {
	payoutsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordPayoutVolume(netPaise int64) {
	payoutNetPaise.Add(float64(netPaise))
}

func (m *Metrics) RecordWebhookEvent(event string, applied bool) {
	label := "no"
	if applied {
		label = "yes"
	}
	webhookEvents.WithLabelValues(event, label).Inc()
}

func (m *Metrics) RecordSweep(sweep string, rows int) {
	sweepRows.WithLabelValues(sweep).Add(float64(rows))
}

func (m *Metrics) RecordCacheHit(entity string) {
	cacheHits.WithLabelValues(entity).Inc()
}

func (m *Metrics) RecordCacheMiss(entity string) {
	cacheMisses.WithLabelValues(entity).Inc()
}
