// Package queries contains read operations over the assignment ledger.
// Handlers read with raw SQL and return flat read models.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderAssignmentAttemptsQueryIsNotConstructed = errors.New(
	"GetOrderAssignmentAttemptsQuery must be created via NewGetOrderAssignmentAttemptsQuery constructor",
)

// GetOrderAssignmentAttemptsQuery lists every driver an order was offered to
// or rejected for.
//
// Example:
//
//	query, err := NewGetOrderAssignmentAttemptsQuery(orderID)
//	attempts, err := handler.Handle(ctx, query)
type GetOrderAssignmentAttemptsQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderAssignmentAttemptsQuery(orderID kernel.UUID) (GetOrderAssignmentAttemptsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderAssignmentAttemptsQuery{}, err
	}
	return GetOrderAssignmentAttemptsQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderAssignmentAttemptsQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderAssignmentAttemptsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderAssignmentAttemptsQueryIsNotConstructed)
}

// AssignmentAttemptView is one ledger row as operators see it.
type AssignmentAttemptView struct {
	ID        kernel.UUID `json:"id"`
	OrderID   kernel.UUID `json:"order_id"`
	DriverID  kernel.UUID `json:"driver_id"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
