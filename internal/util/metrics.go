package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReconcileRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_runs_total",
		Help: "Total number of order reconciliation runs",
	})

	ReconcilePartialTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_partial_total",
		Help: "Reconciliation runs that degraded to a partial result",
	}, []string{"reason"})

	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconcile_duration_seconds",
		Help:    "Latency of a full reconciliation pass",
		Buckets: prometheus.DefBuckets,
	})

	OrdersReconciledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_reconciled_total",
		Help: "Total number of orders returned by reconciliation",
	})

	OrdersDroppedOwnerless = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_dropped_ownerless_total",
		Help: "Orders dropped because ownership could not be established",
	})

	LocalCacheCorruptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "local_cache_corrupt_total",
		Help: "Local order cache reads that hit corrupt data",
	})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersPlaceFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_place_failed_total",
		Help: "Total number of failed order placements",
	}, []string{"reason"})

	StatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Admin order status transitions",
	}, []string{"status"})

	ListCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_list_cache_hits_total",
		Help: "Reconciled order list served from Redis",
	})

	ListCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_list_cache_misses_total",
		Help: "Reconciled order list rebuilt from the stores",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
