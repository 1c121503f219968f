package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentLedger stores assignment attempts. Implementations must make
// AddPending an atomic insert-if-absent keyed on the driver, and AddRejected
// idempotent per (order, driver).
type AssignmentLedger interface {
	// RejectedDriverIDs lists drivers already ruled out for orderID.
	RejectedDriverIDs(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error)

	// Snapshot answers both ledger checks for (orderID, driverID) in one read.
	Snapshot(ctx context.Context, orderID, driverID kernel.UUID) (assignment.Snapshot, error)

	// AddPending records the offer unless the driver already holds a pending
	// attempt. created is false when another writer got there first.
	AddPending(ctx context.Context, attempt *assignment.Attempt) (created bool, err error)

	// AddRejected records the rejection; an existing rejection for the same
	// pair is not an error and reports created=false.
	AddRejected(ctx context.Context, attempt *assignment.Attempt) (created bool, err error)
}
