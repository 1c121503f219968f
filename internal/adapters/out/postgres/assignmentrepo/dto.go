// Package assignmentrepo persists the assignment ledger.
//
// Two partial unique indexes carry the ledger invariants:
//   - idx_assignment_attempts_one_pending: one pending attempt per driver
//   - idx_assignment_attempts_rejected_pair: one rejection per (order, driver)
//
// Inserts use ON CONFLICT DO NOTHING, so the insert itself is the
// compare-and-set and RowsAffected tells the caller who won.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptDTO is a row of "assignment_attempts".
type AttemptDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DriverID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (AttemptDTO) TableName() string {
	return "assignment_attempts"
}

// Migrate creates the table and the partial unique indexes AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&AttemptDTO{}); err != nil {
		return err
	}
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignment_attempts_one_pending
			ON assignment_attempts (driver_id) WHERE status = 'pending'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignment_attempts_rejected_pair
			ON assignment_attempts (order_id, driver_id) WHERE status = 'rejected'`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func fromDomain(a *assignment.Attempt) AttemptDTO {
	return AttemptDTO{
		ID:        a.ID().Raw(),
		OrderID:   a.OrderID().Raw(),
		DriverID:  a.DriverID().Raw(),
		Status:    a.Status().String(),
		CreatedAt: a.CreatedAt(),
	}
}
