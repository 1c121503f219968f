package commands

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
)

// MatchStage names the step at which an order was abandoned.
type MatchStage string

const (
	StageLedgerRead  MatchStage = "ledger_read"
	StageResolve     MatchStage = "resolve"
	StageLocate      MatchStage = "locate"
	StageDirectory   MatchStage = "directory"
	StageScreen      MatchStage = "screen"
	StageLedgerWrite MatchStage = "ledger_write"
	StagePayload     MatchStage = "payload"
)

// MatchError is an order-level failure: the order is skipped for this sweep
// and earlier ledger writes for it stand.
type MatchError struct {
	OrderID kernel.UUID
	Stage   MatchStage
	Err     error
}

func newMatchError(orderID kernel.UUID, stage MatchStage, err error) *MatchError {
	return &MatchError{OrderID: orderID, Stage: stage, Err: err}
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("dispatch order %s failed at %s: %v", e.OrderID, e.Stage, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}
