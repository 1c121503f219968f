package queries

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"

	"gorm.io/gorm"
)

type GetPendingOffersQueryHandler struct {
	db *gorm.DB
}

func NewGetPendingOffersQueryHandler(db *gorm.DB) GetPendingOffersQueryHandler {
	return GetPendingOffersQueryHandler{db: db}
}

// Handle returns pending attempts, oldest first. A driver appears at most once.
func (h GetPendingOffersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOffersQuery,
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
		WHERE status = ?
		ORDER BY created_at, id
	`, assignment.StatusPending.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAttemptViews(rows)
}
