package ports

import "time"

// DispatchMetrics receives counters from the sweep.
type DispatchMetrics interface {
	SweepCompleted(duration time.Duration, ordersSeen int)
	SweepSkipped(reason string)
	OrderFailed(stage string)
	CandidateDecided(decision string)
	NotificationSent()
	NotificationFailed()
}
