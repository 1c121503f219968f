package order

import (
	"errors"
	"fmt"
	"strconv"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")

// Params is the stored state RestoreOrder rebuilds an Order from.
type Params struct {
	ID              kernel.UUID
	Status          string
	Kind            Kind
	Vendor          *Vendor
	AssignedDriver  *kernel.UUID
	Taxi            *TaxiTrip
	Parcel          *ParcelRoute
	DeliveryAddress *kernel.Place
	Stops           []kernel.Place
	DeliveryFee     string
	Total           string
	PackageType     string
}

// Order is a read-only view of an upstream order.
type Order struct {
	id              kernel.UUID
	status          string
	kind            Kind
	vendor          *Vendor
	assignedDriver  *kernel.UUID
	taxi            *TaxiTrip
	parcel          *ParcelRoute
	deliveryAddress *kernel.Place
	stops           []kernel.Place
	deliveryFee     string
	total           string
	packageType     string
	isConstructed   bool
}

// RestoreOrder validates p and builds the Order. Only the sub-record the kind
// resolves its pickup from is mandatory; a KindOther order restores but cannot
// be resolved.
func RestoreOrder(p Params) (*Order, error) {
	o := &Order{
		status:          p.Status,
		kind:            p.Kind,
		vendor:          p.Vendor,
		assignedDriver:  p.AssignedDriver,
		taxi:            p.Taxi,
		parcel:          p.Parcel,
		deliveryAddress: p.DeliveryAddress,
		stops:           append([]kernel.Place(nil), p.Stops...),
		packageType:     p.PackageType,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setStatus(p.Status),
		p.Kind.Validate(),
		o.validateSubRecords(),
		o.setDeliveryFee(p.DeliveryFee),
		o.setTotal(p.Total),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Status() string {
	return o.status
}

func (o *Order) Kind() Kind {
	return o.kind
}

// Vendor is nil for vendor-less (taxi) orders.
func (o *Order) Vendor() *Vendor {
	return o.vendor
}

// VendorID is nil for vendor-less orders.
func (o *Order) VendorID() *kernel.UUID {
	if o.vendor == nil {
		return nil
	}
	id := o.vendor.ID
	return &id
}

func (o *Order) AssignedDriver() *kernel.UUID {
	return o.assignedDriver
}

// VehicleTypeID is only meaningful for taxi orders.
func (o *Order) VehicleTypeID() *kernel.UUID {
	if o.kind != KindTaxi || o.taxi == nil {
		return nil
	}
	return o.taxi.VehicleTypeID
}

func (o *Order) DeliveryFee() string {
	return o.deliveryFee
}

func (o *Order) Total() string {
	return o.total
}

func (o *Order) PackageType() string {
	return o.packageType
}

func (o *Order) Stops() []kernel.Place {
	return append([]kernel.Place(nil), o.stops...)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status string) error {
	if status == "" {
		return errs.NewValueIsRequiredError("status")
	}
	o.status = status
	return nil
}

func (o *Order) setDeliveryFee(v string) error {
	fee, err := normalizeDecimal("delivery fee", v)
	if err != nil {
		return err
	}
	o.deliveryFee = fee
	return nil
}

func (o *Order) setTotal(v string) error {
	total, err := normalizeDecimal("total", v)
	if err != nil {
		return err
	}
	o.total = total
	return nil
}

func (o *Order) validateSubRecords() error {
	var kindErr error
	switch o.kind {
	case KindTaxi:
		if o.taxi == nil {
			kindErr = errs.NewValueIsRequiredError("taxi sub-order")
		}
	case KindVendorDelivery:
		if o.vendor == nil {
			kindErr = errs.NewValueIsRequiredError("vendor")
		}
	case KindParcel:
		if o.parcel == nil {
			kindErr = errs.NewValueIsRequiredError("parcel pickup")
		}
	}

	checks := []error{kindErr}
	if o.vendor != nil {
		checks = append(checks, o.vendor.Validate())
	}
	if o.taxi != nil {
		checks = append(checks, o.taxi.Validate())
	}
	if o.parcel != nil {
		checks = append(checks, o.parcel.Validate())
	}
	if o.deliveryAddress != nil {
		checks = append(checks, o.deliveryAddress.Validate())
	}
	for i, stop := range o.stops {
		if err := stop.Validate(); err != nil {
			checks = append(checks, fmt.Errorf("stop %d: %w", i, err))
		}
	}
	return errors.Join(checks...)
}

// normalizeDecimal keeps the upstream textual form; an empty amount reads as "0".
func normalizeDecimal(name, v string) (string, error) {
	if v == "" {
		return "0", nil
	}
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v, nil
}
