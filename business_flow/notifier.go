package businessflow

import (
	"context"

	"github.com/Ankushsph/fuel/models"
)

// Notifier receives business events after the owning transaction has
// committed. Implementations must be fire-and-forget: a delivery failure
// is logged, never propagated back into the flow.
type Notifier interface {
	TransactionSettled(ctx context.Context, transaction *models.FuelTransaction, groupUUID string)
	TransactionFailed(ctx context.Context, transaction *models.FuelTransaction, reason string)
	PayoutProcessed(ctx context.Context, settlement *models.PumpSettlement)
}
