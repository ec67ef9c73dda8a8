// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscout_search_requests_total",
			Help: "Total number of lead search requests handled",
		},
		[]string{"status"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadscout_search_duration_seconds",
			Help:    "End-to-end duration of lead search requests in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"enriched"},
	)

	PlacesAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscout_places_api_requests_total",
			Help: "Total number of calls to the places provider",
		},
		[]string{"operation", "status"},
	)

	EnrichmentFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscout_enrichment_failures_total",
			Help: "Per-place enrichment failures, contained and logged",
		},
		[]string{"stage"},
	)

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadscout_scrape_duration_seconds",
			Help:    "Duration of website email scrapes in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 4, 6},
		},
		[]string{"outcome"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadscout_detail_cache_lookups_total",
			Help: "Place-detail cache lookups by result",
		},
		[]string{"result"},
	)
)
