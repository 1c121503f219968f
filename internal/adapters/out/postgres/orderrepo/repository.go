package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

const (
	taxiBranch = `orders.vendor_id IS NULL AND orders.driver_id IS NULL
		AND EXISTS (SELECT 1 FROM taxi_orders t WHERE t.order_id = orders.id)`

	vendorBranch = `EXISTS (SELECT 1 FROM vendors v WHERE v.id = orders.vendor_id AND v.auto_assignment%s)
		AND NOT EXISTS (SELECT 1 FROM assignment_attempts a WHERE a.order_id = orders.id)
		AND (orders.delivery_address_id IS NOT NULL
			OR EXISTS (SELECT 1 FROM order_stops s WHERE s.order_id = orders.id))`
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// GetEligibleForDispatch selects ready orders that are either unclaimed taxi
// orders or auto-assigned vendor orders that were never offered and have
// somewhere to go.
func (r *GormOrderRepository) GetEligibleForDispatch(ctx context.Context, criteria ports.EligibilityCriteria) ([]*order.Order, error) {
	if criteria.Limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", criteria.Limit, 1, "unbounded")
	}

	vendorCond := r.db.Where(vendorBranchSQL(len(criteria.ExcludedVendorTypes) > 0), excludedArgs(criteria.ExcludedVendorTypes)...)
	eligible := r.db.Where(taxiBranch).Or(vendorCond)

	var dtos []OrderDTO
	err := r.preload(r.db.WithContext(ctx)).
		Where("orders.status = ?", criteria.ReadyStatus).
		Where(eligible).
		Limit(criteria.Limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	var failures []*ports.OrderLoadError
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			id, _ := kernel.UUIDFrom(dto.ID)
			failures = append(failures, &ports.OrderLoadError{OrderID: id, Err: err})
			continue
		}
		orders = append(orders, o)
	}

	if len(failures) > 0 {
		return orders, &ports.OrderLoadErrors{Failures: failures}
	}
	return orders, nil
}

// Get retrieves an order with all the records it is restored from.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preload(r.db.WithContext(ctx)).First(&dto, "orders.id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Vendor").
		Preload("DeliveryAddress").
		Preload("ParcelPickup").
		Preload("ParcelDropoff").
		Preload("Taxi").
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_stops.position ASC")
		})
}

func vendorBranchSQL(withExclusions bool) string {
	if withExclusions {
		return fmt.Sprintf(vendorBranch, " AND v.vendor_type_slug NOT IN ?")
	}
	return fmt.Sprintf(vendorBranch, "")
}

func excludedArgs(excluded []string) []any {
	if len(excluded) == 0 {
		return nil
	}
	return []any{excluded}
}
