package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// CandidateQuery describes one nearby-driver lookup.
type CandidateQuery struct {
	Pickup   kernel.GeoPoint
	RadiusKm float64
	// VehicleTypeID narrows the search; only taxi orders set it.
	VehicleTypeID *kernel.UUID
	Limit         int
	// Exclude lists drivers that must not be returned.
	Exclude []kernel.UUID
}

// Candidate is a driver position reported by a CandidateDriverSource.
type Candidate struct {
	DriverID kernel.UUID
	Location kernel.GeoPoint
}

// CandidateDriverSource finds drivers near a point, nearest first, at most
// query.Limit of them. Callers must not rely on ordering between equidistant
// drivers.
type CandidateDriverSource interface {
	FindCandidates(ctx context.Context, query CandidateQuery) ([]Candidate, error)
}

// IsExcluded reports whether id is in q.Exclude.
func (q CandidateQuery) IsExcluded(id kernel.UUID) bool {
	for _, excluded := range q.Exclude {
		if excluded.IsEqual(id) {
			return true
		}
	}
	return false
}
