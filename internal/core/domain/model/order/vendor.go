package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Vendor is the part of a vendor profile the sweep needs.
type Vendor struct {
	ID       kernel.UUID
	Place    kernel.Place
	TypeSlug string
	// DeliveryRange is forwarded verbatim as the offer "range"; empty when unset.
	DeliveryRange string
	// MaxOrdersPerDriver overrides the global capacity cap when positive.
	MaxOrdersPerDriver int
}

func (v Vendor) Validate() error {
	var placeErr error
	if err := v.Place.Validate(); err != nil {
		placeErr = errs.NewValueIsRequiredErrorWithCause("vendor location", err)
	}
	var capErr error
	if v.MaxOrdersPerDriver < 0 {
		capErr = errs.NewValueIsOutOfRangeError("vendor max orders per driver", v.MaxOrdersPerDriver, 0, "unbounded")
	}
	return errors.Join(v.ID.Validate(), placeErr, capErr)
}

// TaxiTrip is the taxi sub-order.
type TaxiTrip struct {
	Pickup  kernel.Place
	Dropoff kernel.Place
	// VehicleTypeID narrows the candidate search when set.
	VehicleTypeID *kernel.UUID
}

func (t TaxiTrip) Validate() error {
	return errors.Join(t.Pickup.Validate(), t.Dropoff.Validate())
}

// ParcelRoute holds the parcel pickup record and an optional explicit dropoff.
type ParcelRoute struct {
	Pickup  kernel.Place
	Dropoff *kernel.Place
}

func (p ParcelRoute) Validate() error {
	if p.Dropoff != nil {
		return errors.Join(p.Pickup.Validate(), p.Dropoff.Validate())
	}
	return p.Pickup.Validate()
}
