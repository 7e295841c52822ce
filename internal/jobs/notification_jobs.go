package jobs

import (
	"context"
	"time"

	"borrowhub-backend/internal/logger"
)

// PruneReadNotifications removes read in-app notifications past the
// retention window.
func (jr *JobRunner) PruneReadNotifications() {
	jr.runWithRecovery("PruneReadNotifications", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		deleted, err := jr.services.Notification.PruneRead(ctx, jr.config.Dispute.NotificationTTLDay)
		if err != nil {
			logger.Error("Failed to prune notifications", "error", err)
			return
		}
		logger.Info("Pruned read notifications", "deleted", deleted)
	})
}
