package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	broadcastJob *AvailableOrdersBroadcastJob
	sweepJob     *StaleRiderSweepJob
}

// NewJobManager creates a new job manager over the configured jobs.
func NewJobManager(
	broadcastJob *AvailableOrdersBroadcastJob,
	sweepJob *StaleRiderSweepJob,
) *JobManager {
	return &JobManager{
		broadcastJob: broadcastJob,
		sweepJob:     sweepJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.broadcastJob.Start(); err != nil {
		return fmt.Errorf("failed to start available orders broadcast job: %w", err)
	}

	if err := jm.sweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.broadcastJob.Stop()
		return fmt.Errorf("failed to start stale rider sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.broadcastJob.Stop()
	jm.sweepJob.Stop()
}
