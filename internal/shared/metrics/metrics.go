package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	extractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_extractions_total",
		Help: "Resume text extractions by outcome.",
	}, []string{"outcome"})

	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_analyses_total",
		Help: "Analysis pipeline runs by terminal state.",
	}, []string{"state"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "resume_analysis_duration_seconds",
		Help:    "End-to-end analysis pipeline duration.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Notification dispatches by outcome.",
	}, []string{"outcome"})

	queueJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_jobs_total",
		Help: "Queue jobs received by the worker, by kind and outcome.",
	}, []string{"kind", "outcome"})
)

// IncExtraction records an extraction outcome ("ok" or "failed").
func IncExtraction(outcome string) {
	extractionsTotal.WithLabelValues(outcome).Inc()
}

// IncAnalysis records an analysis terminal state.
func IncAnalysis(state string) {
	analysesTotal.WithLabelValues(state).Inc()
}

// ObserveAnalysisDuration records an analysis pipeline duration in seconds.
func ObserveAnalysisDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	analysisDuration.Observe(seconds)
}

// IncNotification records a notification outcome ("enqueued", "sent", "failed").
func IncNotification(outcome string) {
	notificationsTotal.WithLabelValues(outcome).Inc()
}

// IncQueueJob records a consumed queue job by kind and outcome.
func IncQueueJob(kind, outcome string) {
	queueJobsTotal.WithLabelValues(kind, outcome).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
