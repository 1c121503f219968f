// Package driverrepo reads the driver directory.
package driverrepo

import (
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is a row of "drivers".
type DriverDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Active         bool       `gorm:"not null;default:false"`
	Online         bool       `gorm:"not null;default:false"`
	VendorID       *uuid.UUID `gorm:"type:uuid;index"`
	AssignedOrders int        `gorm:"not null;default:0"`
	DeviceToken    string     `gorm:"type:varchar(512)"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}

	var vendorID *kernel.UUID
	if dto.VendorID != nil {
		vID, vendorErr := kernel.UUIDFrom(*dto.VendorID)
		if vendorErr != nil {
			return nil, vendorErr
		}
		vendorID = &vID
	}

	return driver.RestoreDriver(driver.Params{
		ID:             id,
		Active:         dto.Active,
		Online:         dto.Online,
		VendorID:       vendorID,
		AssignedOrders: dto.AssignedOrders,
		DeviceToken:    dto.DeviceToken,
	})
}
