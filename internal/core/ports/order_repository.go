// Package ports defines the contracts between the dispatch core and the
// infrastructure it runs on: persistence, driver location lookup,
// notification delivery, settings and cross-instance locking.
package ports

import (
	"context"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// DefaultBatchSize caps how many orders one sweep selects.
const DefaultBatchSize = 20

// EligibilityCriteria parameterises the dispatch eligibility query.
type EligibilityCriteria struct {
	ReadyStatus         string
	ExcludedVendorTypes []string
	Limit               int
}

// OrderRepository reads upstream orders. The dispatch engine never writes orders.
type OrderRepository interface {
	// GetEligibleForDispatch returns at most criteria.Limit orders in the ready
	// status that are either vendor-less taxi orders with no driver, or
	// auto-assigned vendor orders with a destination and no attempt yet.
	// Orders come back in natural table order. Rows that fail to load are
	// reported through *OrderLoadErrors alongside the orders that did.
	GetEligibleForDispatch(ctx context.Context, criteria EligibilityCriteria) ([]*order.Order, error)

	// Get retrieves an order by id or returns an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderLoadError reports one selected order whose stored records could not be
// turned into a valid Order.
type OrderLoadError struct {
	OrderID kernel.UUID
	Err     error
}

func (e *OrderLoadError) Error() string {
	return fmt.Sprintf("load order %s: %v", e.OrderID, e.Err)
}

func (e *OrderLoadError) Unwrap() error {
	return e.Err
}

// OrderLoadErrors is returned by GetEligibleForDispatch together with the
// orders that did load. Callers treat each entry as an order-level failure.
type OrderLoadErrors struct {
	Failures []*OrderLoadError
}

func (e *OrderLoadErrors) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return strings.Join(msgs, "; ")
}
