package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

// Latency buckets in milliseconds: both model calls sit on the request
// path, so the tail stretches well past typical HTTP budgets.
var latencyBuckets = []float64{
	50, 100, 250,
	500, 1000, 2500,
	5000, 10000, 30000, 60000,
}

var (
	AuditsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "auditgate_audits_total",
			Help: "Total number of audit records created, by risk status",
		},
		[]string{"status"},
	)

	PipelineFailuresTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "auditgate_pipeline_failures_total",
			Help: "Pipeline runs aborted before a record was created, by failure category",
		},
		[]string{"category"},
	)

	AuditFallbacksTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "auditgate_audit_fallbacks_total",
			Help: "Assessments synthesized because the auditor was unreachable or unparseable",
		},
	)

	PipelineDuration = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auditgate_pipeline_duration_ms",
			Help:    "End-to-end pipeline latency in milliseconds",
			Buckets: latencyBuckets,
		},
	)

	EventsDroppedTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "auditgate_events_dropped_total",
			Help: "Live audit events dropped because a subscriber buffer was full",
		},
	)

	StreamSubscribers = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "auditgate_stream_subscribers",
			Help: "Currently connected live-stream subscribers",
		},
	)
)

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
