// Package jobs provides scheduled background tasks for the fulfillment core.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations around the claim protocol.
//
// # Available Jobs
//
// 1. AvailableOrdersBroadcastJob - Periodically pushes the claimable-order
// pool to connected riders, so riders who connected after an order:created
// event still see what is up for grabs.
//
// 2. StaleRiderSweepJob - Flips riders whose location has gone stale to
// OFFLINE, so dead connections stop looking like deliverable capacity.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(broadcastJob, sweepJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Job ticks log failures and wait for the next tick; a failed tick never
// stops the schedule. Failed job starts stop any already running jobs.
package jobs
