package driver

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrDriverIsNotConstructed is returned when using a zero-value Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via RestoreDriver constructor")
	// ErrAssignedOrdersIsNegative is returned when the directory reports a negative counter.
	ErrAssignedOrdersIsNegative = errs.NewValueIsOutOfRangeError("assigned orders", "negative", 0, "unbounded")
)

// Params is the directory record RestoreDriver rebuilds a Driver from.
type Params struct {
	ID             kernel.UUID
	Active         bool
	Online         bool
	VendorID       *kernel.UUID
	AssignedOrders int
	DeviceToken    string
}

// Driver is a read-only snapshot of a driver directory entry.
//
// The sweep never mutates drivers; counters change through the external
// acceptance flow. A Driver therefore exposes queries only.
type Driver struct {
	id             kernel.UUID
	active         bool
	online         bool
	vendorID       *kernel.UUID
	assignedOrders int
	deviceToken    string
	guard          guard.ConstructorGuard
}

// RestoreDriver validates p and returns the Driver it describes.
func RestoreDriver(p Params) (*Driver, error) {
	var vendorErr error
	if p.VendorID != nil {
		vendorErr = p.VendorID.Validate()
	}
	var countErr error
	if p.AssignedOrders < 0 {
		countErr = ErrAssignedOrdersIsNegative
	}
	if err := errors.Join(p.ID.Validate(), vendorErr, countErr); err != nil {
		return nil, err
	}

	var vendorID *kernel.UUID
	if p.VendorID != nil {
		id := *p.VendorID
		vendorID = &id
	}

	return &Driver{
		id:             p.ID,
		active:         p.Active,
		online:         p.Online,
		vendorID:       vendorID,
		assignedOrders: p.AssignedOrders,
		deviceToken:    p.DeviceToken,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) IsActive() bool {
	return d.active
}

func (d *Driver) IsOnline() bool {
	return d.online
}

// VendorID is nil for independent drivers.
func (d *Driver) VendorID() *kernel.UUID {
	return d.vendorID
}

func (d *Driver) AssignedOrders() int {
	return d.assignedOrders
}

// DeviceToken addresses push notifications; empty when the driver never registered a device.
func (d *Driver) DeviceToken() string {
	return d.deviceToken
}

// CanServeVendor reports whether the driver may be offered an order owned by
// orderVendor. Independent drivers serve everyone; a vendor-affiliated driver
// serves its own vendor and vendor-less orders.
func (d *Driver) CanServeVendor(orderVendor *kernel.UUID) bool {
	if d.vendorID == nil || orderVendor == nil {
		return true
	}
	return d.vendorID.IsEqual(*orderVendor)
}

// HasCapacity reports whether the driver is active, online and carries fewer
// than maxOrders orders.
func (d *Driver) HasCapacity(maxOrders int) bool {
	return d.active && d.online && d.assignedOrders < maxOrders
}
