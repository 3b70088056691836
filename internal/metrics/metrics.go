// Package metrics exposes Prometheus counters for the summary pipeline. All
// methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rezumat/internal/domain"
)

const namespace = "rezumat"

type Metrics struct {
	registry *prometheus.Registry

	messages        *prometheus.CounterVec
	fetches         *prometheus.CounterVec
	summaries       *prometheus.CounterVec
	summaryDuration prometheus.Histogram
	batchItems      *prometheus.CounterVec
	truncations     prometheus.Counter
	prunedLimiters  prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Incoming messages by route.",
		}, []string{"route"}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Content fetches by the tier that produced the content.",
		}, []string{"tier"}),
		summaries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summary completions by result.",
		}, []string{"result"}),
		summaryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_duration_seconds",
			Help:      "Duration of summary completions.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		batchItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Batch items by outcome.",
		}, []string{"outcome"}),
		truncations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_truncations_total",
			Help:      "Batch outputs cut to fit the message limit.",
		}),
		prunedLimiters: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pruned_limiters_total",
			Help:      "Idle rate limiters removed by housekeeping.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Message(route string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(route).Inc()
}

func (m *Metrics) Fetch(tier domain.Tier) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(string(tier)).Inc()
}

func (m *Metrics) Summary(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(result).Inc()
	m.summaryDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) BatchItem(outcome string) {
	if m == nil {
		return
	}
	m.batchItems.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Truncated() {
	if m == nil {
		return
	}
	m.truncations.Inc()
}

func (m *Metrics) PrunedLimiters(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.prunedLimiters.Add(float64(n))
}
