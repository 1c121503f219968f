package commands

import (
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// MatchOutcome summarises what one order produced during a sweep.
type MatchOutcome struct {
	OrderID             kernel.UUID
	Candidates          int
	PendingWritten      int
	RejectedWritten     int
	Skipped             int
	NotificationsSent   int
	NotificationsFailed int
}

// Offered counts drivers that received a pending attempt in this sweep.
func (o MatchOutcome) Offered() int {
	return o.PendingWritten
}

// SweepReport is returned by RunDispatchSweepCommandHandler.Handle.
type SweepReport struct {
	Trigger string `json:"trigger"`
	// Skipped is true when another instance held the sweep lock.
	Skipped             bool          `json:"skipped"`
	OrdersSeen          int           `json:"orders_seen"`
	OrdersMatched       int           `json:"orders_matched"`
	OrdersFailed        int           `json:"orders_failed"`
	OrdersAbandoned     int           `json:"orders_abandoned"`
	PendingWritten      int           `json:"pending_written"`
	RejectedWritten     int           `json:"rejected_written"`
	NotificationsSent   int           `json:"notifications_sent"`
	NotificationsFailed int           `json:"notifications_failed"`
	Duration            time.Duration `json:"duration_ns"`
}

// reportBuilder collects outcomes from concurrently processed orders.
type reportBuilder struct {
	mu     sync.Mutex
	report SweepReport
}

func (b *reportBuilder) add(outcome MatchOutcome, failed, abandoned bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.report.PendingWritten += outcome.PendingWritten
	b.report.RejectedWritten += outcome.RejectedWritten
	b.report.NotificationsSent += outcome.NotificationsSent
	b.report.NotificationsFailed += outcome.NotificationsFailed
	switch {
	case abandoned:
		b.report.OrdersAbandoned++
	case failed:
		b.report.OrdersFailed++
	case outcome.Offered() > 0:
		b.report.OrdersMatched++
	}
}

func (b *reportBuilder) build() SweepReport {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.report
}
