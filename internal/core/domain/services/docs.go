// Package services provides domain services that decide across several
// entities at once in the dispatch system.
//
// The package includes:
//   - DispatchMatcher: the per-candidate decision pipeline that screens a
//     driver for an order and tells the caller which ledger write, if any, to make
//   - OfferBuilder: assembles the offer payload a notified driver receives
//
// Both services are pure: they read domain objects and return values. Ledger
// writes and notifications are performed by the application layer.
package services
