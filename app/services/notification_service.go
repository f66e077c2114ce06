// Package services provides external service integrations and technical concerns like notifications and caching
package services

import (
	"context"
	"log"

	businessflow "github.com/Ankushsph/fuel/business_flow"
	"github.com/Ankushsph/fuel/models"
)

// NotificationSink delivers a single notification message to a recipient
// channel (SMS gateway, push service, webhook). Integrations plug in here.
type NotificationSink interface {
	Deliver(ctx context.Context, event string, payload map[string]any) error
}

// LogNotifier implements businessflow.Notifier. Delivery failures are
// logged and dropped; a notification must never fail a committed
// settlement.
type LogNotifier struct {
	sink NotificationSink
}

// NewLogNotifier creates a notifier backed by an optional sink. With a nil
// sink events are only logged.
func NewLogNotifier(sink NotificationSink) businessflow.Notifier {
	return &LogNotifier{sink: sink}
}

// TransactionSettled reports a settled fuel sale
func (n *LogNotifier) TransactionSettled(ctx context.Context, transaction *models.FuelTransaction, groupUUID string) {
	log.Printf("transaction %d settled: vehicle %s amount %s group %s",
		transaction.ID, transaction.VehicleNumber, transaction.Amount.StringFixed(2), groupUUID)
	n.deliver(ctx, "transaction.settled", map[string]any{
		"transaction_id": transaction.ID,
		"vehicle_number": transaction.VehicleNumber,
		"amount":         transaction.Amount.StringFixed(2),
		"group_uuid":     groupUUID,
	})
}

// TransactionFailed reports a failed settlement attempt
func (n *LogNotifier) TransactionFailed(ctx context.Context, transaction *models.FuelTransaction, reason string) {
	log.Printf("transaction %d failed: vehicle %s reason %q",
		transaction.ID, transaction.VehicleNumber, reason)
	n.deliver(ctx, "transaction.failed", map[string]any{
		"transaction_id": transaction.ID,
		"vehicle_number": transaction.VehicleNumber,
		"failure_reason": reason,
	})
}

// PayoutProcessed reports an approved or rejected payout request
func (n *LogNotifier) PayoutProcessed(ctx context.Context, settlement *models.PumpSettlement) {
	log.Printf("payout %d for owner %d is %s (%s)",
		settlement.ID, settlement.PumpOwnerID, settlement.Status, settlement.Amount.StringFixed(2))
	n.deliver(ctx, "payout.processed", map[string]any{
		"settlement_id": settlement.ID,
		"pump_owner_id": settlement.PumpOwnerID,
		"status":        string(settlement.Status),
		"amount":        settlement.Amount.StringFixed(2),
	})
}

func (n *LogNotifier) deliver(ctx context.Context, event string, payload map[string]any) {
	if n.sink == nil {
		return
	}
	if err := n.sink.Deliver(ctx, event, payload); err != nil {
		log.Printf("notification delivery failed for %s: %v", event, err)
	}
}
