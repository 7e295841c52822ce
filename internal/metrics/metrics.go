package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SweepRuns counts completed expiration sweep passes.
	SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "borrowhub_sweep_runs_total",
		Help: "Number of completed expiration sweep passes.",
	})

	// SweepScanned counts pending rentals examined by the sweeper.
	SweepScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "borrowhub_sweep_scanned_total",
		Help: "Number of pending rentals examined by the expiration sweeper.",
	})

	// RentalsExpired counts rentals force-transitioned to EXPIRED.
	RentalsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "borrowhub_rentals_expired_total",
		Help: "Number of rentals expired by the sweeper.",
	})

	// SweepConflicts counts conditional expirations lost to a concurrent
	// approve/reject; a nonzero rate is normal under racing actors.
	SweepConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "borrowhub_sweep_conflicts_total",
		Help: "Number of expiration writes that lost a status race.",
	})

	// DisputesResolved counts dispute resolutions by deduction percentage.
	DisputesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "borrowhub_disputes_resolved_total",
		Help: "Number of resolved disputes, labeled by deduction percentage.",
	}, []string{"deduction_pct"})

	// HTTPRequests counts API requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "borrowhub_http_requests_total",
		Help: "Number of handled HTTP requests.",
	}, []string{"route", "method", "status"})
)
