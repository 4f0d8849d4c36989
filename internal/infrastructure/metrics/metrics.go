// Package metrics exposes the bot's Prometheus collectors. One Metrics value
// implements the observer interfaces of the store, the scheduler, the alert
// dispatcher, the generator and the assistant.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studybot"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	messages         *prometheus.CounterVec
	messageLatency   *prometheus.HistogramVec
	snapshotOps      *prometheus.CounterVec
	snapshotLatency  *prometheus.HistogramVec
	jobRuns          *prometheus.CounterVec
	jobLatency       *prometheus.HistogramVec
	alertDeliveries  *prometheus.CounterVec
	generations      *prometheus.CounterVec
	generatorLatency prometheus.Histogram
}

// New registers every collector, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: intent, structured ("true", "false")
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Chat messages by resolved intent",
		}, []string{"intent", "structured"}),
		messageLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "reply_seconds",
			Help:      "Time to produce a reply",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
		}, []string{"structured"}),

		// Labels: operation (load, save), backend, status (ok, error)
		snapshotOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "snapshot_operations_total",
			Help:      "Snapshot loads and saves by backend and outcome",
		}, []string{"operation", "backend", "status"}),
		snapshotLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "snapshot_seconds",
			Help:      "Snapshot load and save latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "backend"}),

		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Scheduled job runs by outcome",
		}, []string{"job", "status"}),
		jobLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_seconds",
			Help:      "Scheduled job duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),

		alertDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "deliveries_total",
			Help:      "Reminder alert deliveries by channel and outcome",
		}, []string{"channel", "status"}),

		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "requests_total",
			Help:      "Text generation requests by provider and outcome",
		}, []string{"provider", "status"}),
		generatorLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "request_seconds",
			Help:      "Text generation latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}),
	}
}

// Registry returns the registry, for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveIntent records one routed chat message.
func (m *Metrics) ObserveIntent(name string, structured bool, d time.Duration) {
	s := boolLabel(structured)
	m.messages.WithLabelValues(name, s).Inc()
	m.messageLatency.WithLabelValues(s).Observe(d.Seconds())
}

// ObserveSnapshot records one snapshot load or save.
func (m *Metrics) ObserveSnapshot(op, backend string, d time.Duration, err error) {
	m.snapshotOps.WithLabelValues(op, backend, status(err)).Inc()
	m.snapshotLatency.WithLabelValues(op, backend).Observe(d.Seconds())
}

// ObserveJob records one scheduled job run.
func (m *Metrics) ObserveJob(name string, d time.Duration, err error) {
	m.jobRuns.WithLabelValues(name, status(err)).Inc()
	m.jobLatency.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveDelivery records one alert delivery attempt.
func (m *Metrics) ObserveDelivery(channel string, success bool) {
	st := "ok"
	if !success {
		st = "error"
	}
	m.alertDeliveries.WithLabelValues(channel, st).Inc()
}

// ObserveGeneration records one generator call.
func (m *Metrics) ObserveGeneration(provider string, d time.Duration, err error) {
	m.generations.WithLabelValues(provider, status(err)).Inc()
	m.generatorLatency.Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
