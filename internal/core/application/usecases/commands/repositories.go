// Package commands contains business operations that modify system state.
// Each command is validated, then its handler manages the transaction
// boundaries and the ports it writes through.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces the dispatch handlers depend on.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DriverDirectoryFactory interface {
		DriverDirectory() ports.DriverDirectory
	}

	LedgerFactory interface {
		AssignmentLedger() ports.AssignmentLedger
	}

	// DispatchUoW spans everything a sweep reads and writes. Repositories
	// taken before Begin run without a transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   snapshot, err := uow.AssignmentLedger().Snapshot(ctx, orderID, driverID)
	//   created, err := uow.AssignmentLedger().AddPending(ctx, attempt)
	//
	//   err = uow.Commit(ctx)
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		DriverDirectoryFactory
		LedgerFactory
	}

	DispatchUoWFactory interface {
		Create() DispatchUoW
	}
)
