package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Settlement attempts partitioned by outcome (settled, failed,
	// config_error)
	settlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_settlements_total",
			Help: "Total number of fuel transaction settlement attempts",
		},
		[]string{"outcome"},
	)

	// Money moved from driver wallets to pump wallets, in currency units
	settledAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_settled_amount_total",
			Help: "Total amount settled from driver wallets to pump wallets",
		},
	)

	// Driver wallet top-ups
	walletTopupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_wallet_topups_total",
			Help: "Total number of driver wallet top-ups",
		},
	)

	// Payout requests partitioned by action taken on them
	payoutsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_payouts_processed_total",
			Help: "Total number of pump settlement requests processed",
		},
		[]string{"action"},
	)
)
