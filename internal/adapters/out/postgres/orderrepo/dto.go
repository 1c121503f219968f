// Package orderrepo maps the upstream order tables onto the order model. The
// dispatch engine only reads these tables; rows are written by the ordering
// system.
package orderrepo

import (
	"github.com/google/uuid"
)

// ParcelVendorType is the vendor type slug of parcel couriers.
const ParcelVendorType = "parcel"

// OrderDTO is a row of "orders" with the related rows it is restored from.
type OrderDTO struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status                  string     `gorm:"type:varchar(64);not null;index"`
	VendorID                *uuid.UUID `gorm:"type:uuid;index"`
	DriverID                *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryAddressID       *uuid.UUID `gorm:"type:uuid"`
	ParcelPickupLocationID  *uuid.UUID `gorm:"type:uuid"`
	ParcelDropoffLocationID *uuid.UUID `gorm:"type:uuid"`
	DeliveryFee             string     `gorm:"type:numeric(12,2);not null;default:0"`
	Total                   string     `gorm:"type:numeric(12,2);not null;default:0"`
	PackageType             string     `gorm:"type:varchar(128)"`

	Vendor          *VendorDTO     `gorm:"foreignKey:VendorID"`
	DeliveryAddress *PlaceDTO      `gorm:"foreignKey:DeliveryAddressID"`
	ParcelPickup    *PlaceDTO      `gorm:"foreignKey:ParcelPickupLocationID"`
	ParcelDropoff   *PlaceDTO      `gorm:"foreignKey:ParcelDropoffLocationID"`
	Taxi            *TaxiOrderDTO  `gorm:"foreignKey:OrderID"`
	Stops           []OrderStopDTO `gorm:"foreignKey:OrderID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// VendorDTO is a row of "vendors".
type VendorDTO struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AutoAssignment  bool           `gorm:"not null;default:false"`
	VendorTypeSlug  string         `gorm:"type:varchar(64);not null"`
	Location        PlaceFieldsDTO `gorm:"embedded"`
	DeliveryRange   *string        `gorm:"type:numeric(10,2)"`
	MaxDriverOrders *int
}

func (VendorDTO) TableName() string {
	return "vendors"
}

// PlaceDTO is a row of "places", shared by delivery addresses and parcel locations.
type PlaceDTO struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Location PlaceFieldsDTO `gorm:"embedded"`
}

func (PlaceDTO) TableName() string {
	return "places"
}

// TaxiOrderDTO is the taxi sub-order, one row per taxi order.
type TaxiOrderDTO struct {
	OrderID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	VehicleTypeID *uuid.UUID     `gorm:"type:uuid"`
	Pickup        PlaceFieldsDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff       PlaceFieldsDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
}

func (TaxiOrderDTO) TableName() string {
	return "taxi_orders"
}

// OrderStopDTO is one intermediate or final stop of a multi-stop order.
type OrderStopDTO struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Position int            `gorm:"not null"`
	Location PlaceFieldsDTO `gorm:"embedded"`
}

func (OrderStopDTO) TableName() string {
	return "order_stops"
}

// PlaceFieldsDTO is the set of columns every located row carries.
type PlaceFieldsDTO struct {
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	Address   string
	City      string
	State     string
	Country   string
}
