package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
)

var (
	ErrPickupUnresolvable  = errors.New("order pickup location cannot be resolved")
	ErrDropoffUnresolvable = errors.New("order dropoff location cannot be resolved")
)

// LocationResolver answers where a driver picks an order up and drops it off.
type LocationResolver interface {
	Pickup() (kernel.Place, error)
	Dropoff() (kernel.Place, error)
}

// ResolveOptions carries settings that change how places are derived.
type ResolveOptions struct {
	// DropoffRegionFromPickup copies the pickup state and country onto the
	// dropoff of vendor deliveries. Legacy clients rely on it.
	DropoffRegionFromPickup bool
}

// Resolver returns the LocationResolver for the order's kind.
func (o *Order) Resolver(opts ResolveOptions) (LocationResolver, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	switch o.kind {
	case KindTaxi:
		return taxiResolver{trip: *o.taxi}, nil
	case KindVendorDelivery:
		return vendorResolver{
			vendor:           *o.vendor,
			deliveryAddress:  o.deliveryAddress,
			stops:            o.stops,
			regionFromPickup: opts.DropoffRegionFromPickup,
		}, nil
	case KindParcel:
		return parcelResolver{
			route:           *o.parcel,
			deliveryAddress: o.deliveryAddress,
			stops:           o.stops,
		}, nil
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrPickupUnresolvable, o.kind)
	}
}

type taxiResolver struct {
	trip TaxiTrip
}

func (r taxiResolver) Pickup() (kernel.Place, error) {
	return r.trip.Pickup, nil
}

func (r taxiResolver) Dropoff() (kernel.Place, error) {
	return r.trip.Dropoff, nil
}

type vendorResolver struct {
	vendor           Vendor
	deliveryAddress  *kernel.Place
	stops            []kernel.Place
	regionFromPickup bool
}

func (r vendorResolver) Pickup() (kernel.Place, error) {
	return r.vendor.Place, nil
}

func (r vendorResolver) Dropoff() (kernel.Place, error) {
	dropoff, ok := firstPresent(r.deliveryAddress, lastStop(r.stops))
	if !ok {
		return kernel.Place{}, fmt.Errorf("%w: vendor order has neither delivery address nor stops", ErrDropoffUnresolvable)
	}
	if r.regionFromPickup {
		return dropoff.WithStateAndCountry(r.vendor.Place.Region()), nil
	}
	return dropoff, nil
}

type parcelResolver struct {
	route           ParcelRoute
	deliveryAddress *kernel.Place
	stops           []kernel.Place
}

func (r parcelResolver) Pickup() (kernel.Place, error) {
	return r.route.Pickup, nil
}

func (r parcelResolver) Dropoff() (kernel.Place, error) {
	dropoff, ok := firstPresent(r.route.Dropoff, lastStop(r.stops), r.deliveryAddress)
	if !ok {
		return kernel.Place{}, fmt.Errorf("%w: parcel order has no dropoff record", ErrDropoffUnresolvable)
	}
	return dropoff, nil
}

func lastStop(stops []kernel.Place) *kernel.Place {
	if len(stops) == 0 {
		return nil
	}
	last := stops[len(stops)-1]
	return &last
}

func firstPresent(places ...*kernel.Place) (kernel.Place, bool) {
	for _, p := range places {
		if p != nil {
			return *p, true
		}
	}
	return kernel.Place{}, false
}
