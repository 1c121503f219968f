package ports

import "context"

// SweepLock keeps sweeps on different instances from overlapping.
type SweepLock interface {
	// TryLock returns ok=false without error when another holder owns the
	// lock. unlock is only set when ok is true.
	TryLock(ctx context.Context) (unlock func(context.Context) error, ok bool, err error)
}
