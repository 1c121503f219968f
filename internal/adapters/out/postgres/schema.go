package postgres

import (
	"fmt"

	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/settingsrepo"

	"gorm.io/gorm"
)

// Migrate creates every table the dispatcher reads or writes. The order
// tables belong to the ordering system and are migrated here for local runs
// and tests only.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&orderrepo.VendorDTO{},
		&orderrepo.PlaceDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.TaxiOrderDTO{},
		&orderrepo.OrderStopDTO{},
		&driverrepo.DriverDTO{},
		&settingsrepo.SettingDTO{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err = assignmentrepo.Migrate(db); err != nil {
		return fmt.Errorf("assignment ledger: %w", err)
	}
	return nil
}

// Tables lists the tables Migrate creates, children first.
var Tables = []string{
	"assignment_attempts",
	"order_stops",
	"taxi_orders",
	"orders",
	"places",
	"vendors",
	"drivers",
	"settings",
}
