package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hamed0406/statuspage/internal/domain"
)

var (
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statuspage_polls_total",
			Help: "Feed polls by outcome (ok, empty, error)",
		},
		[]string{"outcome"},
	)

	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "statuspage_poll_duration_seconds",
			Help:    "Duration of one poll cycle including the fetch",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
	)

	ResultsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statuspage_results_ingested_total",
			Help: "Check results stored",
		},
	)

	ResultsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statuspage_results_duplicate_total",
			Help: "Check results ignored as (endpoint, timestamp) duplicates",
		},
	)

	EventsDerived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statuspage_events_derived_total",
			Help: "Timeline events derived by kind (change, message)",
		},
		[]string{"kind"},
	)

	OverallStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "statuspage_overall_status",
			Help: "1 for the current overall indicator, 0 otherwise",
		},
		[]string{"indicator"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statuspage_notifications_total",
			Help: "Overall-status notifications by level and outcome",
		},
		[]string{"level", "outcome"},
	)
)

var indicators = []domain.Indicator{
	domain.IndicatorHealthy,
	domain.IndicatorDegraded,
	domain.IndicatorDown,
	domain.IndicatorUnknown,
}

// SetOverall flags ind as the current indicator.
func SetOverall(ind domain.Indicator) {
	for _, i := range indicators {
		v := 0.0
		if i == ind {
			v = 1
		}
		OverallStatus.WithLabelValues(string(i)).Set(v)
	}
}

// CountEvents records derived events by kind.
func CountEvents(events []domain.Event) {
	for _, e := range events {
		kind := "change"
		if e.IsMessage() {
			kind = "message"
		}
		EventsDerived.WithLabelValues(kind).Inc()
	}
}
