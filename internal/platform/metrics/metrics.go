package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// Construct once per process; services tolerate a nil *Metrics in tests.
type Metrics struct {
	LoginSuccess        prometheus.Counter
	AuthFailures        prometheus.Counter
	RateLimitedAttempts prometheus.Counter
	RateLimitSweeps     *prometheus.CounterVec
	SweptEntries        prometheus.Counter

	AuditRecordsWritten *prometheus.CounterVec
	AuditWriteFailures  prometheus.Counter
	AuditExports        prometheus.Counter

	ContentMutations *prometheus.CounterVec
	EndpointLatency  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LoginSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inkwell_logins_total",
			Help: "Total number of successful logins",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inkwell_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		RateLimitedAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inkwell_rate_limited_attempts_total",
			Help: "Total number of login attempts rejected by the rate limiter",
		}),
		RateLimitSweeps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_rate_limit_sweeps_total",
			Help: "Total number of rate limit sweep runs, labeled by outcome",
		}, []string{"outcome"}),
		SweptEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inkwell_rate_limit_swept_entries_total",
			Help: "Total number of expired rate limit entries removed by the sweeper",
		}),
		AuditRecordsWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_audit_records_total",
			Help: "Total number of audit records written, labeled by action",
		}, []string{"action"}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inkwell_audit_write_failures_total",
			Help: "Total number of audit writes that failed",
		}),
		AuditExports: promauto.NewCounter(prometheus.CounterOpts{
			Name: "inkwell_audit_exports_total",
			Help: "Total number of audit export downloads",
		}),
		ContentMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_content_mutations_total",
			Help: "Total number of content mutations, labeled by entity type",
		}, []string{"entity"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inkwell_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncrementLoginSuccess() {
	if m == nil {
		return
	}
	m.LoginSuccess.Inc()
}

func (m *Metrics) IncrementAuthFailures() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

func (m *Metrics) IncrementRateLimitedAttempts() {
	if m == nil {
		return
	}
	m.RateLimitedAttempts.Inc()
}

func (m *Metrics) ObserveSweep(outcome string, removed int) {
	if m == nil {
		return
	}
	m.RateLimitSweeps.WithLabelValues(outcome).Inc()
	m.SweptEntries.Add(float64(removed))
}

func (m *Metrics) IncrementAuditRecords(action string) {
	if m == nil {
		return
	}
	m.AuditRecordsWritten.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementAuditWriteFailures() {
	if m == nil {
		return
	}
	m.AuditWriteFailures.Inc()
}

func (m *Metrics) IncrementAuditExports() {
	if m == nil {
		return
	}
	m.AuditExports.Inc()
}

func (m *Metrics) IncrementContentMutations(entity string) {
	if m == nil {
		return
	}
	m.ContentMutations.WithLabelValues(entity).Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
