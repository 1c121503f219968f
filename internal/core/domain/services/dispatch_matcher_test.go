package services_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchMatcher_Prepare(t *testing.T) {
	matcher := services.NewDispatchMatcher()
	pickup := point(t, 1, 1)

	t.Run("taxi order uses policy cap and adds prior rejections to the limit", func(t *testing.T) {
		o := taxiOrder(t, pickup, point(t, 1.1, 1.1))

		oc, err := matcher.Prepare(o, defaultPolicy(), 2)

		require.NoError(t, err)
		assert.Equal(t, 1, oc.MaxOrdersPerDriver)
		assert.InDelta(t, 5.0, oc.RadiusKm, 1e-9)
		assert.Equal(t, 2, oc.PriorRejected)
		assert.Equal(t, 3, oc.BaseNotifyCap)
		assert.Equal(t, 5, oc.CandidateLimit)
		assert.Equal(t, "Pickup", oc.Pickup.Address())
		assert.Equal(t, "Dropoff", oc.Dropoff.Address())
	})

	t.Run("vendor override wins over the policy cap", func(t *testing.T) {
		vendor := order.Vendor{
			ID:                 kernel.NewUUID(),
			Place:              place(t, pickup, "Shop", kernel.Region{State: "Greater Accra", Country: "GH"}),
			MaxOrdersPerDriver: 4,
		}
		o := vendorOrder(t, vendor, point(t, 1.01, 1.01), order.KindVendorDelivery)

		oc, err := matcher.Prepare(o, defaultPolicy(), 0)

		require.NoError(t, err)
		assert.Equal(t, 4, oc.MaxOrdersPerDriver)
		assert.Equal(t, "Greater Accra", oc.Dropoff.Region().State)
		assert.Equal(t, "GH", oc.Dropoff.Region().Country)
		assert.Equal(t, "Tema", oc.Dropoff.Region().City)
	})

	t.Run("unresolvable order fails", func(t *testing.T) {
		o, err := order.RestoreOrder(order.Params{ID: kernel.NewUUID(), Status: "ready", Kind: order.KindOther})
		require.NoError(t, err)

		_, err = matcher.Prepare(o, defaultPolicy(), 0)

		require.ErrorIs(t, err, order.ErrPickupUnresolvable)
	})

	t.Run("invalid policy fails", func(t *testing.T) {
		o := taxiOrder(t, pickup, point(t, 1.1, 1.1))

		_, err := matcher.Prepare(o, services.MatchPolicy{}, 0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMatchPolicy_Validate_Radius(t *testing.T) {
	testCases := []struct {
		name   string
		radius float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"not a number", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			policy := defaultPolicy()
			policy.SearchRadiusKm = tc.radius

			require.ErrorIs(t, policy.Validate(), errs.ErrValueIsOutOfRange)
		})
	}

	t.Run("NaN radius never reaches the distance check", func(t *testing.T) {
		policy := defaultPolicy()
		policy.SearchRadiusKm = math.NaN()

		_, err := services.NewDispatchMatcher().Prepare(taxiOrder(t, point(t, 1, 1), point(t, 1.1, 1.1)), policy, 0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	assert.True(t, services.IsUsableRadius(0.5))
}

func TestDispatchMatcher_Screen(t *testing.T) {
	matcher := services.NewDispatchMatcher()
	pickup := point(t, 1, 1)
	vendorID := kernel.NewUUID()
	otherVendorID := kernel.NewUUID()

	vendor := order.Vendor{ID: vendorID, Place: place(t, pickup, "Shop", kernel.Region{})}
	vendorCtx, err := matcher.Prepare(vendorOrder(t, vendor, point(t, 1.02, 1), order.KindVendorDelivery), defaultPolicy(), 0)
	require.NoError(t, err)
	taxiCtx, err := matcher.Prepare(taxiOrder(t, pickup, point(t, 1.1, 1.1)), defaultPolicy(), 0)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		oc       services.OrderContext
		driver   *driver.Driver
		at       kernel.GeoPoint
		want     services.Decision
		distance float64
	}{
		{"missing driver", taxiCtx, nil, northOf(t, pickup, 1), services.DecisionSkipMissing, 0},
		{"vendor mismatch", vendorCtx, onlineDriver(t, &otherVendorID, 0), northOf(t, pickup, 1), services.DecisionSkipVendor, 0},
		{"own vendor within radius", vendorCtx, onlineDriver(t, &vendorID, 0), northOf(t, pickup, 3), services.DecisionContinue, 3},
		{"affiliated driver on taxi order", taxiCtx, onlineDriver(t, &otherVendorID, 0), northOf(t, pickup, 3), services.DecisionContinue, 3},
		{"just inside the radius", taxiCtx, onlineDriver(t, nil, 0), northOf(t, pickup, 4.999), services.DecisionContinue, 4.999},
		{"beyond the radius", taxiCtx, onlineDriver(t, nil, 0), northOf(t, pickup, 8), services.DecisionRejectDistance, 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision, distance, err := matcher.Screen(tc.oc, tc.driver, tc.at)

			require.NoError(t, err)
			assert.Equal(t, tc.want, decision)
			assert.InDelta(t, tc.distance, distance, 1e-6)
		})
	}
}

func TestDispatchMatcher_Qualify(t *testing.T) {
	matcher := services.NewDispatchMatcher()
	oc, err := matcher.Prepare(taxiOrder(t, point(t, 1, 1), point(t, 1.1, 1.1)), defaultPolicy(), 0)
	require.NoError(t, err)

	offline, err := driver.RestoreDriver(driver.Params{ID: kernel.NewUUID(), Active: true})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		driver   *driver.Driver
		snapshot assignment.Snapshot
		want     services.Decision
	}{
		{"pending elsewhere", onlineDriver(t, nil, 0), assignment.Snapshot{HasPendingAnywhere: true}, services.DecisionSkipPending},
		{"pending wins over rejected", onlineDriver(t, nil, 0), assignment.Snapshot{HasPendingAnywhere: true, RejectedForOrder: true}, services.DecisionSkipPending},
		{"rejected for this order", onlineDriver(t, nil, 0), assignment.Snapshot{RejectedForOrder: true}, services.DecisionSkipRejected},
		{"at capacity", onlineDriver(t, nil, 1), assignment.Snapshot{}, services.DecisionSkipCapacity},
		{"offline", offline, assignment.Snapshot{}, services.DecisionSkipCapacity},
		{"free driver", onlineDriver(t, nil, 0), assignment.Snapshot{}, services.DecisionOffer},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matcher.Qualify(oc, tc.driver, tc.snapshot))
		})
	}
}

func TestDecision(t *testing.T) {
	assert.Equal(t, "reject_distance", services.DecisionRejectDistance.String())
	assert.Equal(t, "unknown", services.Decision(100).String())
	assert.True(t, services.DecisionSkipBusy.IsSkip())
	assert.False(t, services.DecisionRejectDistance.IsSkip())
	assert.False(t, services.DecisionOffer.IsSkip())
}
