package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "linkanalyzer"

// Business metrics
var (
	PageViewsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_views_recorded_total",
			Help:      "Sessions committed by the ingestion endpoint",
		},
	)

	LinksRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_links_recorded_total",
			Help:      "Session to link associations committed",
		},
	)

	IngestRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_rejected_total",
			Help:      "Page views rejected, by error code",
		},
		[]string{"code"},
	)

	SessionsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_deleted_total",
			Help:      "Sessions removed by the retention window",
		},
	)

	Purges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purges_total",
			Help:      "Full data purges, by status",
		},
		[]string{"status"},
	)

	StatsCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_cache_requests_total",
			Help:      "Dashboard cache lookups, by result",
		},
		[]string{"result"}, // hit, miss, error
	)
)
