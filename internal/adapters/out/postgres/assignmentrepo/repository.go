package assignmentrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnexpectedStatus = errors.New("attempt has unexpected status")

// GormAssignmentLedger implements ports.AssignmentLedger using GORM.
type GormAssignmentLedger struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormAssignmentLedger(db *gorm.DB, tracker aggregateTracker) *GormAssignmentLedger {
	return &GormAssignmentLedger{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormAssignmentLedger) RejectedDriverIDs(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&AttemptDTO{}).
		Where("order_id = ? AND status = ?", orderID.Raw(), assignment.StatusRejected.String()).
		Order("created_at ASC").
		Pluck("driver_id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFrom(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type snapshotRow struct {
	HasPendingAnywhere bool
	RejectedForOrder   bool
}

// Snapshot answers both ledger checks with one statement so they observe the
// same database state.
func (r *GormAssignmentLedger) Snapshot(ctx context.Context, orderID, driverID kernel.UUID) (assignment.Snapshot, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return assignment.Snapshot{}, err
	}

	var row snapshotRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(BOOL_OR(status = ?), FALSE) AS has_pending_anywhere,
			COALESCE(BOOL_OR(status = ? AND order_id = ?), FALSE) AS rejected_for_order
		FROM assignment_attempts
		WHERE driver_id = ?
	`, assignment.StatusPending.String(), assignment.StatusRejected.String(), orderID.Raw(), driverID.Raw()).
		Scan(&row).Error
	if err != nil {
		return assignment.Snapshot{}, err
	}

	return assignment.Snapshot{
		HasPendingAnywhere: row.HasPendingAnywhere,
		RejectedForOrder:   row.RejectedForOrder,
	}, nil
}

func (r *GormAssignmentLedger) AddPending(ctx context.Context, attempt *assignment.Attempt) (bool, error) {
	return r.insertIfAbsent(ctx, attempt, assignment.StatusPending)
}

func (r *GormAssignmentLedger) AddRejected(ctx context.Context, attempt *assignment.Attempt) (bool, error) {
	return r.insertIfAbsent(ctx, attempt, assignment.StatusRejected)
}

func (r *GormAssignmentLedger) insertIfAbsent(ctx context.Context, attempt *assignment.Attempt, want assignment.Status) (bool, error) {
	if err := attempt.Validate(); err != nil {
		return false, err
	}
	if attempt.Status() != want {
		return false, errs.NewValueIsInvalidErrorWithCause("attempt status", ErrUnexpectedStatus)
	}

	dto := fromDomain(attempt)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	r.tracker.TrackAggregate(attempt.ID(), attempt)
	return true, nil
}
