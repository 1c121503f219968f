package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderAssignmentAttemptsQueryHandler reads the ledger rows of one order, oldest first.
type GetOrderAssignmentAttemptsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderAssignmentAttemptsQueryHandler(db *gorm.DB) GetOrderAssignmentAttemptsQueryHandler {
	return GetOrderAssignmentAttemptsQueryHandler{db: db}
}

func (h GetOrderAssignmentAttemptsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderAssignmentAttemptsQuery,
) ([]AssignmentAttemptView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			driver_id,
			status,
			created_at
		FROM assignment_attempts
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().Raw()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttemptViews(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAttemptViews(rows rowScanner) ([]AssignmentAttemptView, error) {
	views := make([]AssignmentAttemptView, 0)
	for rows.Next() {
		var (
			id, orderID, driverID uuid.UUID
			view                  AssignmentAttemptView
			createdAt             time.Time
		)
		if err := rows.Scan(&id, &orderID, &driverID, &view.Status, &createdAt); err != nil {
			return nil, err
		}

		var err error
		if view.ID, err = kernel.UUIDFrom(id); err != nil {
			return nil, err
		}
		if view.OrderID, err = kernel.UUIDFrom(orderID); err != nil {
			return nil, err
		}
		if view.DriverID, err = kernel.UUIDFrom(driverID); err != nil {
			return nil, err
		}
		view.CreatedAt = createdAt.UTC()
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}
