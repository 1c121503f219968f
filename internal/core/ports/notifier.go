package ports

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
)

// Notifier delivers an offer to one driver. Delivery failures are reported
// but never undo the ledger write that preceded the call.
type Notifier interface {
	Notify(ctx context.Context, d *driver.Driver, payload services.OfferPayload) error
}
