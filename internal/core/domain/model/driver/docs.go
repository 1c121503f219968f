// Package driver holds the Driver entity as the dispatch sweep sees it: the
// directory flags and counters that decide whether a driver may receive a new
// offer.
//
// Key business rules:
//   - A vendor-affiliated driver only serves orders of the same vendor or
//     vendor-less (taxi) orders
//   - A driver can take another order only while active, online and below the
//     per-driver order cap
//
// Live coordinates are not part of the entity; they come from the candidate
// driver source.
package driver
