package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the dispatcher and daemon.
type Metrics struct {
	registry          *prometheus.Registry
	GenerateRequests  *prometheus.CounterVec
	GenerateDuration  *prometheus.HistogramVec
	CompletionTokens  prometheus.Counter
	CandidateUsage    *prometheus.CounterVec
	CandidateFailures *prometheus.CounterVec
	ActiveStreams     *prometheus.GaugeVec
	TransportErrs     *prometheus.CounterVec
}

// NewMetrics constructs a metrics registry with dispatcher collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	reqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "thinksim_generate_requests_total",
		Help: "Generate requests by outcome (success, exhausted, rejected)",
	}, []string{"outcome"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "thinksim_generate_duration_seconds",
		Help:    "End-to-end generate duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	tokens := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "thinksim_completion_tokens_total",
		Help: "Completion tokens reported by providers",
	})

	usage := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "thinksim_candidate_usage_total",
		Help: "Successful generations by candidate model",
	}, []string{"model"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "thinksim_candidate_failures_total",
		Help: "Per-candidate failures by model and reason",
	}, []string{"model", "reason"})

	active := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "thinksim_active_streams",
		Help: "Active streaming sessions by transport",
	}, []string{"transport"})

	trErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "thinksim_transport_errors_total",
		Help: "Transport-level errors by transport and reason",
	}, []string{"transport", "reason"})

	reg.MustRegister(reqs, durs, tokens, usage, failures, active, trErrors)

	return &Metrics{
		registry:          reg,
		GenerateRequests:  reqs,
		GenerateDuration:  durs,
		CompletionTokens:  tokens,
		CandidateUsage:    usage,
		CandidateFailures: failures,
		ActiveStreams:     active,
		TransportErrs:     trErrors,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordGenerate records the outcome, duration, and token count of a request.
func (m *Metrics) RecordGenerate(outcome string, duration time.Duration, completionTokens int) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.GenerateRequests.WithLabelValues(outcome).Inc()
	m.GenerateDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if completionTokens > 0 {
		m.CompletionTokens.Add(float64(completionTokens))
	}
}

// RecordCandidateSuccess increments the usage counter for a model.
func (m *Metrics) RecordCandidateSuccess(model string) {
	if m == nil {
		return
	}
	if model == "" {
		model = "unknown"
	}
	m.CandidateUsage.WithLabelValues(model).Inc()
}

// RecordCandidateFailure increments the failure counter for a model/reason.
func (m *Metrics) RecordCandidateFailure(model, reason string) {
	if m == nil {
		return
	}
	if model == "" {
		model = "unknown"
	}
	if reason == "" {
		reason = "unknown"
	}
	m.CandidateFailures.WithLabelValues(model, reason).Inc()
}

// IncActiveStreams increments the active stream gauge.
func (m *Metrics) IncActiveStreams(transport string) {
	if m == nil {
		return
	}
	m.ActiveStreams.WithLabelValues(transport).Inc()
}

// DecActiveStreams decrements the active stream gauge.
func (m *Metrics) DecActiveStreams(transport string) {
	if m == nil {
		return
	}
	m.ActiveStreams.WithLabelValues(transport).Dec()
}

// RecordTransportError records a transport-level error.
func (m *Metrics) RecordTransportError(transport, reason string) {
	if m == nil {
		return
	}
	if transport == "" {
		transport = "unknown"
	}
	if reason == "" {
		reason = "unknown"
	}
	m.TransportErrs.WithLabelValues(transport, reason).Inc()
}
