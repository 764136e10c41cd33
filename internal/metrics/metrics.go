package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NWSAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hailscout_nws_api_calls_total",
			Help: "Total NWS alert API calls",
		},
		[]string{"endpoint", "status"},
	)

	AlertsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hailscout_alerts_fetched_total",
			Help: "Raw alerts fetched after relevance filtering",
		},
		[]string{"region"},
	)

	StormsQualified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hailscout_storms_qualified_total",
			Help: "Alerts that passed storm classification",
		},
		[]string{"region", "category"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hailscout_notifications_sent_total",
			Help: "Digest emails delivered per recipient",
		},
		[]string{"region", "category", "status"},
	)

	CheckCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hailscout_check_cycle_duration_seconds",
			Help:    "Full check cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
