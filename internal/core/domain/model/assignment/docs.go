// Package assignment models the assignment ledger: one Attempt per offer made
// to a driver for an order, either pending or rejected.
package assignment
