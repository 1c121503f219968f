package services_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

// northOf returns the point km kilometres due north of p.
func northOf(t *testing.T, p kernel.GeoPoint, km float64) kernel.GeoPoint {
	t.Helper()
	return point(t, p.Lat()+km*180/(math.Pi*kernel.EarthRadiusKm), p.Lng())
}

func place(t *testing.T, p kernel.GeoPoint, address string, region kernel.Region) kernel.Place {
	t.Helper()
	pl, err := kernel.NewPlace(p, address, region)
	require.NoError(t, err)
	return pl
}

func taxiOrder(t *testing.T, pickup, dropoff kernel.GeoPoint) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Params{
		ID:     kernel.NewUUID(),
		Status: "ready",
		Kind:   order.KindTaxi,
		Taxi: &order.TaxiTrip{
			Pickup:  place(t, pickup, "Pickup", kernel.Region{City: "Accra"}),
			Dropoff: place(t, dropoff, "Dropoff", kernel.Region{City: "Accra"}),
		},
		DeliveryFee: "7.50",
		Total:       "20.00",
	})
	require.NoError(t, err)
	return o
}

func vendorOrder(t *testing.T, vendor order.Vendor, dropoff kernel.GeoPoint, kind order.Kind) *order.Order {
	t.Helper()
	address := place(t, dropoff, "Customer", kernel.Region{City: "Tema", State: "Other", Country: "TG"})
	params := order.Params{
		ID:              kernel.NewUUID(),
		Status:          "ready",
		Kind:            kind,
		Vendor:          &vendor,
		DeliveryAddress: &address,
		PackageType:     "box",
	}
	if kind == order.KindParcel {
		params.Parcel = &order.ParcelRoute{Pickup: vendor.Place}
	}
	o, err := order.RestoreOrder(params)
	require.NoError(t, err)
	return o
}

func onlineDriver(t *testing.T, vendorID *kernel.UUID, assigned int) *driver.Driver {
	t.Helper()
	d, err := driver.RestoreDriver(driver.Params{
		ID:             kernel.NewUUID(),
		Active:         true,
		Online:         true,
		VendorID:       vendorID,
		AssignedOrders: assigned,
	})
	require.NoError(t, err)
	return d
}

func defaultPolicy() services.MatchPolicy {
	return services.MatchPolicy{
		MaxOrdersPerDriver:      1,
		SearchRadiusKm:          5,
		MaxDriversNotified:      3,
		DropoffRegionFromPickup: true,
	}
}
