// Package kernel holds the value objects shared by every dispatch aggregate.
//
//   - UUID: identifier of orders, drivers, vendors, vehicle types and attempts
//   - GeoPoint: a validated WGS84 coordinate with great-circle distance
//   - Place: a GeoPoint plus its postal description (address, city, state, country)
//
// All of them are immutable and carry a constructor guard, so a zero value never
// passes Validate.
package kernel
