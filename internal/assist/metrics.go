package assist

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "incidentdesk"

var (
	suggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assist",
			Name:      "suggestions_total",
			Help:      "Triage-assist calls by outcome",
		},
		[]string{"outcome"},
	)

	suggestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assist",
			Name:      "suggestion_duration_seconds",
			Help:      "Time to obtain a triage suggestion",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"outcome"},
	)

	discardedResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assist",
			Name:      "discarded_results_total",
			Help:      "Assist results dropped because a newer edit cycle superseded them",
		},
	)

	chatRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assist",
			Name:      "chat_replies_total",
			Help:      "Chatbot replies by outcome",
		},
		[]string{"outcome"},
	)
)

func recordSuggestion(outcome string, duration time.Duration) {
	suggestionsTotal.WithLabelValues(outcome).Inc()
	suggestionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func recordDiscarded() {
	discardedResults.Inc()
}

func recordChat(outcome string) {
	chatRepliesTotal.WithLabelValues(outcome).Inc()
}
