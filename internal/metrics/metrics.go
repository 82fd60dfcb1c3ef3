package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grangou_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	DashboardSectionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grangou_dashboard_section_duration_seconds",
		Help:    "Time spent computing one dashboard section",
		Buckets: prometheus.DefBuckets,
	}, []string{"section"})

	DashboardCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grangou_dashboard_cache_total",
		Help: "Dashboard snapshot cache lookups",
	}, []string{"result"})

	MalformedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grangou_malformed_records_total",
		Help: "Match records skipped or repaired during normalization",
	}, []string{"reason"})

	CacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grangou_cache_invalidations_total",
		Help: "Dashboard cache invalidations triggered by match events",
	}, []string{"outcome"})

	WarmRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grangou_warm_runs_total",
		Help: "Total dashboard warm runs",
	})

	AuditRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grangou_audit_runs_total",
		Help: "Total match store audit runs",
	})
)

// Cache results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
