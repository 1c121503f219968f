package assignment

// Snapshot is what the ledger knows about one driver relative to one order,
// read in a single query so both answers describe the same moment.
type Snapshot struct {
	// HasPendingAnywhere is true when the driver holds a pending attempt for any order.
	HasPendingAnywhere bool
	// RejectedForOrder is true when the driver was already ruled out for this order.
	RejectedForOrder bool
}
