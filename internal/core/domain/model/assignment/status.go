package assignment

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an Attempt. Only the two states the sweep
// writes are modelled; the acceptance flow owns every later transition.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusRejected:
		return Status(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("attempt status", fmt.Errorf("unknown status %q", s))
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

func (s Status) IsRejected() bool {
	return s == StatusRejected
}
