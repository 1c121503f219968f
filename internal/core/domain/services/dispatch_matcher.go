package services

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// MatchPolicy is the part of the dispatch settings the matcher needs. It is
// resolved once per sweep and shared by every order of that sweep.
type MatchPolicy struct {
	MaxOrdersPerDriver      int
	SearchRadiusKm          float64
	MaxDriversNotified      int
	DropoffRegionFromPickup bool
}

func (p MatchPolicy) Validate() error {
	var errList []error
	if p.MaxOrdersPerDriver < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("max orders per driver", p.MaxOrdersPerDriver, 1, "unbounded"))
	}
	if !IsUsableRadius(p.SearchRadiusKm) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("search radius km", p.SearchRadiusKm, "0 (exclusive)", "unbounded"))
	}
	if p.MaxDriversNotified < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("max drivers notified", p.MaxDriversNotified, 1, "unbounded"))
	}
	return errors.Join(errList...)
}

// IsUsableRadius reports whether km is a finite positive radius. NaN would
// make every distance comparison false and let any driver through.
func IsUsableRadius(km float64) bool {
	return !math.IsNaN(km) && !math.IsInf(km, 0) && km > 0
}

// OrderContext holds everything computed once per order before candidates
// are evaluated.
type OrderContext struct {
	Order              *order.Order
	Pickup             kernel.Place
	Dropoff            kernel.Place
	MaxOrdersPerDriver int
	RadiusKm           float64
	PriorRejected      int
	// BaseNotifyCap is how many drivers one sweep may notify for the order.
	BaseNotifyCap int
	// CandidateLimit is BaseNotifyCap plus PriorRejected; it sizes the candidate lookup.
	CandidateLimit int
}

// DispatchMatcher is a domain service implementing the candidate pipeline:
//
//  1. existence and vendor affiliation (Screen)
//  2. distance to pickup within the search radius (Screen)
//  3. no pending attempt anywhere (Qualify)
//  4. not already rejected for this order (Qualify)
//  5. active, online and under the per-driver cap (Qualify)
//
// The first failing check decides. Screen runs without touching the ledger;
// Qualify runs against a ledger snapshot read by the caller inside the same
// transaction as the pending write.
type DispatchMatcher struct{}

func NewDispatchMatcher() DispatchMatcher {
	return DispatchMatcher{}
}

// Prepare builds the OrderContext of o. An order whose locations cannot be
// resolved fails here and is abandoned for the sweep.
func (m DispatchMatcher) Prepare(o *order.Order, policy MatchPolicy, priorRejected int) (OrderContext, error) {
	if err := o.Validate(); err != nil {
		return OrderContext{}, err
	}
	if err := policy.Validate(); err != nil {
		return OrderContext{}, err
	}
	if priorRejected < 0 {
		return OrderContext{}, errs.NewValueIsOutOfRangeError("prior rejected", priorRejected, 0, "unbounded")
	}

	resolver, err := o.Resolver(order.ResolveOptions{DropoffRegionFromPickup: policy.DropoffRegionFromPickup})
	if err != nil {
		return OrderContext{}, err
	}
	pickup, err := resolver.Pickup()
	if err != nil {
		return OrderContext{}, err
	}
	dropoff, err := resolver.Dropoff()
	if err != nil {
		return OrderContext{}, err
	}

	maxOrders := policy.MaxOrdersPerDriver
	if v := o.Vendor(); v != nil && v.MaxOrdersPerDriver > 0 {
		maxOrders = v.MaxOrdersPerDriver
	}

	return OrderContext{
		Order:              o,
		Pickup:             pickup,
		Dropoff:            dropoff,
		MaxOrdersPerDriver: maxOrders,
		RadiusKm:           policy.SearchRadiusKm,
		PriorRejected:      priorRejected,
		BaseNotifyCap:      policy.MaxDriversNotified,
		CandidateLimit:     policy.MaxDriversNotified + priorRejected,
	}, nil
}

// Screen runs the checks that need no ledger read. d is nil when the
// directory has no record for the candidate. The returned distance is the
// great-circle distance from location to the pickup, in km, and is only
// meaningful once the vendor check passed.
func (m DispatchMatcher) Screen(oc OrderContext, d *driver.Driver, location kernel.GeoPoint) (Decision, float64, error) {
	if d == nil {
		return DecisionSkipMissing, 0, nil
	}
	if err := d.Validate(); err != nil {
		return DecisionSkipMissing, 0, err
	}
	if !d.CanServeVendor(oc.Order.VendorID()) {
		return DecisionSkipVendor, 0, nil
	}

	distance, err := location.DistanceKm(oc.Pickup.Point())
	if err != nil {
		return DecisionContinue, 0, fmt.Errorf("distance to pickup: %w", err)
	}
	if distance > oc.RadiusKm {
		return DecisionRejectDistance, distance, nil
	}
	return DecisionContinue, distance, nil
}

// Qualify finishes the pipeline for a driver that passed Screen.
func (m DispatchMatcher) Qualify(oc OrderContext, d *driver.Driver, snapshot assignment.Snapshot) Decision {
	if snapshot.HasPendingAnywhere {
		return DecisionSkipPending
	}
	if snapshot.RejectedForOrder {
		return DecisionSkipRejected
	}
	if !d.HasCapacity(oc.MaxOrdersPerDriver) {
		return DecisionSkipCapacity
	}
	return DecisionOffer
}
