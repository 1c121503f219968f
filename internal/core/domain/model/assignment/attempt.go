package assignment

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAttemptIsNotConstructed = errors.New("Attempt must be created via NewAttempt or RestoreAttempt")

// Attempt records that an order was offered to, or ruled out for, one driver.
type Attempt struct {
	id        kernel.UUID
	orderID   kernel.UUID
	driverID  kernel.UUID
	status    Status
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewPending starts an offer of orderID to driverID.
func NewPending(orderID, driverID kernel.UUID, now time.Time) (*Attempt, error) {
	return NewAttempt(kernel.NewUUID(), orderID, driverID, StatusPending, now)
}

// NewRejected marks driverID as never to be offered orderID again.
func NewRejected(orderID, driverID kernel.UUID, now time.Time) (*Attempt, error) {
	return NewAttempt(kernel.NewUUID(), orderID, driverID, StatusRejected, now)
}

// NewAttempt is also used by repositories to restore stored rows.
func NewAttempt(id, orderID, driverID kernel.UUID, status Status, createdAt time.Time) (*Attempt, error) {
	var statusErr error
	if _, err := ParseStatus(string(status)); err != nil {
		statusErr = err
	}
	var createdErr error
	if createdAt.IsZero() {
		createdErr = errs.NewValueIsRequiredError("created at")
	}
	if err := errors.Join(id.Validate(), orderID.Validate(), driverID.Validate(), statusErr, createdErr); err != nil {
		return nil, err
	}

	return &Attempt{
		id:        id,
		orderID:   orderID,
		driverID:  driverID,
		status:    status,
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (a *Attempt) Validate() error {
	if a == nil {
		return ErrAttemptIsNotConstructed
	}
	return a.guard.Validate(ErrAttemptIsNotConstructed)
}

func (a *Attempt) ID() kernel.UUID {
	return a.id
}

func (a *Attempt) OrderID() kernel.UUID {
	return a.orderID
}

func (a *Attempt) DriverID() kernel.UUID {
	return a.driverID
}

func (a *Attempt) Status() Status {
	return a.status
}

func (a *Attempt) CreatedAt() time.Time {
	return a.createdAt
}
