// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_sessions_started_total",
			Help: "Total number of conversation sessions started",
		},
	)

	SessionRestarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_session_restarts_total",
			Help: "Total number of explicit session restarts",
		},
	)

	AnswersCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_answers_collected_total",
			Help: "Total number of answers collected per template",
		},
		[]string{"template_id"},
	)

	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_documents_generated_total",
			Help: "Total number of documents generated per template",
		},
		[]string{"template_id"},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_generation_failures_total",
			Help: "Total number of failed document generations",
		},
		[]string{"template_id", "error_code"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_generation_duration_seconds",
			Help: "Duration of document generation in seconds",
		},
		[]string{"template_id"},
	)

	ProfileCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_profile_cache_hits_total",
			Help: "Sessions that found a stored answer profile",
		},
	)

	ProfileCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_profile_cache_misses_total",
			Help: "Sessions that found no stored answer profile",
		},
	)

	ProfileCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_profile_cache_errors_total",
			Help: "Best-effort profile cache failures by operation",
		},
		[]string{"operation"},
	)
)
