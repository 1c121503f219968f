// Package jobs schedules the dispatch sweep with github.com/robfig/cron/v3.
//
// DispatchSweepJob runs on a six-field cron expression (seconds first):
//
//	job, err := jobs.NewDispatchSweepJob(handler, "*/10 * * * * *", time.Minute, logger)
//	manager := jobs.NewJobManager()
//	manager.Register("dispatch sweep", job)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// The cron chain recovers panics and skips a tick while the previous sweep
// is still running. Overlap across instances is handled by the sweep lock
// inside the handler, not here.
package jobs
