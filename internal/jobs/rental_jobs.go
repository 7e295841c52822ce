package jobs

import (
	"context"
	"time"

	"borrowhub-backend/internal/logger"
	"borrowhub-backend/internal/metrics"
)

// ExpireStalePendingRentals runs one full expiration sweep over all pending
// rentals. The pass is bounded by the configured timeout; whatever is left
// over is handled by the next scheduled run.
func (jr *JobRunner) ExpireStalePendingRentals() {
	jr.runWithRecovery("ExpireStalePendingRentals", func() {
		timeout := time.Duration(jr.config.Scheduler.SweepTimeoutSeconds) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := jr.services.Rental.ExpireStalePending(ctx)
		metrics.SweepRuns.Inc()
		metrics.SweepScanned.Add(float64(res.Scanned))
		metrics.RentalsExpired.Add(float64(res.Expired))
		metrics.SweepConflicts.Add(float64(res.Conflicts))

		if err != nil {
			logger.Error("Expiration sweep aborted", "error", err,
				"scanned", res.Scanned, "expired", res.Expired, "conflicts", res.Conflicts)
			return
		}
		logger.Info("Expiration sweep finished",
			"scanned", res.Scanned, "expired", res.Expired, "conflicts", res.Conflicts)
	})
}
