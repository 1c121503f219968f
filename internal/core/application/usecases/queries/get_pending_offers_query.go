package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrGetPendingOffersQueryIsNotConstructed = errors.New(
	"GetPendingOffersQuery must be created via NewGetPendingOffersQuery constructor",
)

// GetPendingOffersQuery lists every driver currently holding an offer.
type GetPendingOffersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetPendingOffersQuery() GetPendingOffersQuery {
	return GetPendingOffersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetPendingOffersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOffersQueryIsNotConstructed)
}
