package kernel

import (
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrPlaceIsNotConstructed = errs.NewValueIsRequiredError("place must be created via NewPlace")

// Place is a point with the postal fields shown to drivers in an offer.
type Place struct {
	point   GeoPoint
	address string
	city    string
	state   string
	country string
	guard   guard.ConstructorGuard
}

// Region is the administrative part of a Place.
type Region struct {
	City    string
	State   string
	Country string
}

func NewPlace(point GeoPoint, address string, region Region) (Place, error) {
	if err := point.Validate(); err != nil {
		return Place{}, err
	}
	return Place{
		point:   point,
		address: address,
		city:    region.City,
		state:   region.State,
		country: region.Country,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (p Place) Validate() error {
	return p.guard.Validate(ErrPlaceIsNotConstructed)
}

func (p Place) Point() GeoPoint {
	return p.point
}

func (p Place) Address() string {
	return p.address
}

func (p Place) Region() Region {
	return Region{City: p.city, State: p.state, Country: p.country}
}

// WithStateAndCountry returns a copy whose state and country come from region.
func (p Place) WithStateAndCountry(region Region) Place {
	p.state = region.State
	p.country = region.Country
	return p
}
