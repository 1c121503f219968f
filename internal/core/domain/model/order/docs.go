// Package order models the dispatchable order as seen by the sweep.
//
// Orders are created and owned upstream; this package only restores them from
// storage and answers where the driver picks up and drops off. The answer
// depends on the order Kind:
//
//   - Taxi: both places come from the taxi sub-order
//   - VendorDelivery: pickup at the vendor, dropoff at the delivery address or last stop
//   - Parcel: pickup and dropoff from the parcel records, last stop as dropoff fallback
//
// Each kind has its own LocationResolver so the derivation lives in one place.
package order
