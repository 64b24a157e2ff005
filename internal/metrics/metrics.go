package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/serroba/tiny/internal/shortener"
)

const namespace = "tiny"

// Prometheus records shortener activity on its own registry.
type Prometheus struct {
	registry    *prometheus.Registry
	shortened   *prometheus.CounterVec
	collisions  *prometheus.CounterVec
	visits      *prometheus.CounterVec
	usageFailed prometheus.Counter
}

// New creates the collectors and registers them, along with the Go runtime and
// process collectors, on a fresh registry.
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		shortened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shorten_requests_total",
			Help:      "Shorten requests by outcome.",
		}, []string{"outcome"}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Tiny collisions by attempted length.",
		}, []string{"length"}),
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redirects_total",
			Help:      "Redirect lookups by result.",
		}, []string{"result"}),
		usageFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_record_failures_total",
			Help:      "Visits whose usage count could not be recorded.",
		}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.shortened,
		p.collisions,
		p.visits,
		p.usageFailed,
	)

	return p
}

func (p *Prometheus) Shortened(outcome shortener.Outcome) {
	p.shortened.WithLabelValues(string(outcome)).Inc()
}

func (p *Prometheus) Collision(length int) {
	p.collisions.WithLabelValues(strconv.Itoa(length)).Inc()
}

func (p *Prometheus) Visited(found bool) {
	result := "found"
	if !found {
		result = "not_found"
	}

	p.visits.WithLabelValues(result).Inc()
}

func (p *Prometheus) UsageRecordFailed() {
	p.usageFailed.Inc()
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Compile-time check.
var _ shortener.Metrics = (*Prometheus)(nil)
