// Package observability provides Prometheus metrics for the scan pipeline.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "liquitrace"

// Metrics holds all Prometheus metrics of the scan job. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Run metrics
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	LastSuccessfulRun prometheus.Gauge

	// Source metrics
	SourcePairs  *prometheus.GaugeVec
	SourceErrors *prometheus.CounterVec

	// Pipeline metrics
	CandidatesRanked prometheus.Gauge
	SummaryFailures  prometheus.Counter
	SummaryCacheHits prometheus.Counter
	SignalsUpserted  *prometheus.CounterVec
	SignalsPruned    prometheus.Counter

	// Notification metrics
	NotificationRequests *prometheus.CounterVec
	NotificationTokens   *prometheus.CounterVec
	SubscribersPruned    prometheus.Counter
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewMetrics creates the scan metrics and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total number of scan runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "run_duration_seconds",
			Help:      "Scan run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful scan run",
		}),

		SourcePairs: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "source_pairs",
			Help:      "Number of target-chain pairs returned by each source in the last run",
		}, []string{"source"}),
		SourceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "source_errors_total",
			Help:      "Total number of failed source fetches",
		}, []string{"source"}),

		CandidatesRanked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "candidates_ranked",
			Help:      "Number of candidates selected by the ranker in the last run",
		}),
		SummaryFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "summary_failures_total",
			Help:      "Total number of summaries that could not be generated",
		}),
		SummaryCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "summary_cache_hits_total",
			Help:      "Total number of summaries served from cache",
		}),
		SignalsUpserted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signals",
			Name:      "upserts_total",
			Help:      "Total number of signal upserts by result",
		}, []string{"result"}),
		SignalsPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signals",
			Name:      "pruned_total",
			Help:      "Total number of signals removed by retention cleanup",
		}),

		NotificationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "requests_total",
			Help:      "Total number of notification batch requests by status",
		}, []string{"status"}),
		NotificationTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "tokens_total",
			Help:      "Total number of notification tokens by delivery outcome",
		}, []string{"outcome"}),
		SubscribersPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "subscribers_pruned_total",
			Help:      "Total number of subscriber rows removed after invalid token reports",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordRun(status string, started time.Time) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(time.Since(started).Seconds())
	if status == StatusSuccess {
		m.LastSuccessfulRun.SetToCurrentTime()
	}
}

func (m *Metrics) RecordSource(source string, pairs int, err error) {
	if m == nil {
		return
	}
	m.SourcePairs.WithLabelValues(source).Set(float64(pairs))
	if err != nil {
		m.SourceErrors.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) RecordRanked(n int) {
	if m == nil {
		return
	}
	m.CandidatesRanked.Set(float64(n))
}

func (m *Metrics) RecordSummary(cached bool, err error) {
	if m == nil {
		return
	}
	if cached {
		m.SummaryCacheHits.Inc()
	}
	if err != nil {
		m.SummaryFailures.Inc()
	}
}

func (m *Metrics) RecordUpsert(inserted bool, err error) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.SignalsUpserted.WithLabelValues("error").Inc()
	case inserted:
		m.SignalsUpserted.WithLabelValues("inserted").Inc()
	default:
		m.SignalsUpserted.WithLabelValues("updated").Inc()
	}
}

func (m *Metrics) RecordSignalsPruned(n int64) {
	if m == nil {
		return
	}
	m.SignalsPruned.Add(float64(n))
}

func (m *Metrics) RecordNotificationRequest(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.NotificationRequests.WithLabelValues(StatusError).Inc()
		return
	}
	m.NotificationRequests.WithLabelValues(StatusSuccess).Inc()
}

func (m *Metrics) RecordDelivery(successful, invalid, rateLimited int) {
	if m == nil {
		return
	}
	m.NotificationTokens.WithLabelValues("successful").Add(float64(successful))
	m.NotificationTokens.WithLabelValues("invalid").Add(float64(invalid))
	m.NotificationTokens.WithLabelValues("rate_limited").Add(float64(rateLimited))
}

func (m *Metrics) RecordSubscribersPruned(n int64) {
	if m == nil {
		return
	}
	m.SubscribersPruned.Add(float64(n))
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
