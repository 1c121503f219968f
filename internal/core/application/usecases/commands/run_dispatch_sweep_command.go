package commands

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRunDispatchSweepCommandIsNotConstructed = errors.New(
	"RunDispatchSweepCommand must be created via NewRunDispatchSweepCommand constructor",
)

// Sweep triggers.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// RunDispatchSweepCommand asks for one pass over the dispatch-eligible orders.
//
// Example:
//
//	cmd, _ := NewRunDispatchSweepCommand(TriggerSchedule)
//	report, err := handler.Handle(ctx, cmd)
type RunDispatchSweepCommand struct {
	trigger string
	guard   guard.ConstructorGuard
}

// NewRunDispatchSweepCommand records who asked for the sweep; the trigger is
// only used for logging and metrics.
func NewRunDispatchSweepCommand(trigger string) (RunDispatchSweepCommand, error) {
	if trigger == "" {
		return RunDispatchSweepCommand{}, errs.NewValueIsRequiredError("trigger")
	}
	return RunDispatchSweepCommand{
		trigger: trigger,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RunDispatchSweepCommand) Trigger() string {
	return c.trigger
}

func (c RunDispatchSweepCommand) Validate() error {
	return c.guard.Validate(ErrRunDispatchSweepCommandIsNotConstructed)
}
