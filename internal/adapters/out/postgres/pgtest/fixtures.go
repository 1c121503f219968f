package pgtest

import (
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixtures writes upstream rows the way the ordering system would.
type Fixtures struct {
	DB *gorm.DB
}

func (f Fixtures) Location(lat, lng float64, address string) orderrepo.PlaceFieldsDTO {
	return orderrepo.PlaceFieldsDTO{
		Latitude:  lat,
		Longitude: lng,
		Address:   address,
		City:      "Accra",
		State:     "Greater Accra",
		Country:   "GH",
	}
}

func (f Fixtures) Vendor(slug string, autoAssignment bool, at orderrepo.PlaceFieldsDTO) (orderrepo.VendorDTO, error) {
	v := orderrepo.VendorDTO{
		ID:             uuid.New(),
		AutoAssignment: autoAssignment,
		VendorTypeSlug: slug,
		Location:       at,
	}
	return v, f.DB.Create(&v).Error
}

func (f Fixtures) Place(at orderrepo.PlaceFieldsDTO) (orderrepo.PlaceDTO, error) {
	p := orderrepo.PlaceDTO{ID: uuid.New(), Location: at}
	return p, f.DB.Create(&p).Error
}

// TaxiOrder writes an order with its taxi sub-order.
func (f Fixtures) TaxiOrder(status string, pickup, dropoff orderrepo.PlaceFieldsDTO) (orderrepo.OrderDTO, error) {
	o := orderrepo.OrderDTO{ID: uuid.New(), Status: status, DeliveryFee: "7.50", Total: "7.50"}
	if err := f.DB.Omit(clause.Associations).Create(&o).Error; err != nil {
		return o, err
	}
	taxi := orderrepo.TaxiOrderDTO{OrderID: o.ID, Pickup: pickup, Dropoff: dropoff}
	return o, f.DB.Create(&taxi).Error
}

// VendorOrder writes a vendor order delivered to address, when given.
func (f Fixtures) VendorOrder(status string, vendor orderrepo.VendorDTO, address *orderrepo.PlaceDTO) (orderrepo.OrderDTO, error) {
	vendorID := vendor.ID
	o := orderrepo.OrderDTO{ID: uuid.New(), Status: status, VendorID: &vendorID, DeliveryFee: "3.00", Total: "25.00"}
	if address != nil {
		addressID := address.ID
		o.DeliveryAddressID = &addressID
	}
	err := f.DB.Omit(clause.Associations).Create(&o).Error
	return o, err
}

func (f Fixtures) Stop(orderID uuid.UUID, position int, at orderrepo.PlaceFieldsDTO) error {
	return f.DB.Create(&orderrepo.OrderStopDTO{ID: uuid.New(), OrderID: orderID, Position: position, Location: at}).Error
}

func (f Fixtures) Driver(active, online bool, vendorID *uuid.UUID, assigned int) (driverrepo.DriverDTO, error) {
	d := driverrepo.DriverDTO{
		ID:             uuid.New(),
		Active:         active,
		Online:         online,
		VendorID:       vendorID,
		AssignedOrders: assigned,
		DeviceToken:    "token-" + uuid.NewString()[:8],
	}
	return d, f.DB.Create(&d).Error
}
