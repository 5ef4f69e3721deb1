package jobs

import (
	"context"
	"time"

	"eventhub-backend/internal/logger"
)

// CompleteElapsedEvents moves active events whose date has passed to 'completed'
func (jr *JobRunner) CompleteElapsedEvents() {
	jr.runWithRecovery("CompleteElapsedEvents", func() {
		ctx := context.Background()

		count, err := jr.store.EventRepository.CompleteElapsed(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to complete elapsed events", "error", err)
			return
		}
		logger.Info("Completed elapsed events", "count", count)
	})
}

// PurgeExpiredSessions deletes refresh-session rows that are past their expiry
func (jr *JobRunner) PurgeExpiredSessions() {
	jr.runWithRecovery("PurgeExpiredSessions", func() {
		ctx := context.Background()

		count, err := jr.store.SessionRepository.DeleteExpired(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to purge expired sessions", "error", err)
			return
		}
		logger.Info("Purged expired sessions", "count", count)
	})
}

// ReconcileParticipantCounts repairs event counters that drifted from the
// number of approved applications. The approval path keeps them consistent on
// its own; this is a safety-net sweep.
func (jr *JobRunner) ReconcileParticipantCounts() {
	jr.runWithRecovery("ReconcileParticipantCounts", func() {
		ctx := context.Background()

		count, err := jr.store.EventRepository.ReconcileParticipantCounts(ctx)
		if err != nil {
			logger.Error("Failed to reconcile participant counts", "error", err)
			return
		}
		if count > 0 {
			logger.Warn("Repaired drifted participant counters", "count", count)
		} else {
			logger.Info("Participant counters consistent", "repaired", 0)
		}
	})
}
