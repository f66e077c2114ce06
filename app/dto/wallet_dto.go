package dto

import (
	"github.com/shopspring/decimal"
)

// TopUpWalletRequest credits a driver wallet after an external payment
// confirmation. Gateway integration is out of scope; the confirmed amount
// and a gateway reference arrive here as an event.
type TopUpWalletRequest struct {
	DriverID         uint            `json:"driver_id" validate:"required"`
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	PaymentReference string          `json:"payment_reference,omitempty" validate:"omitempty,max=100"`
}

// TopUpWalletResponse reports the credited wallet state
type TopUpWalletResponse struct {
	WalletID   uint            `json:"wallet_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
	GroupUUID  string          `json:"group_uuid"`
}

// WalletBalanceDTO is the current balance view of one wallet
type WalletBalanceDTO struct {
	WalletID   uint            `json:"wallet_id"`
	WalletType string          `json:"wallet_type"`
	Balance    decimal.Decimal `json:"balance"`
	Currency   string          `json:"currency"`
}

// WalletStatementRequest pages through a wallet's ledger entries
type WalletStatementRequest struct {
	WalletType string `json:"wallet_type" validate:"required,oneof=driver_wallet pump_wallet"`
	WalletID   uint   `json:"wallet_id" validate:"required"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset     int    `json:"offset" validate:"omitempty,min=0"`
}

// StatementEntryDTO is one ledger entry in a wallet statement
type StatementEntryDTO struct {
	ID            uint            `json:"id"`
	GroupUUID     string          `json:"group_uuid"`
	EventType     string          `json:"event_type"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceID   *uint           `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// WalletStatementDTO is one page of a wallet's ledger history
type WalletStatementDTO struct {
	WalletID   uint                `json:"wallet_id"`
	WalletType string              `json:"wallet_type"`
	Entries    []StatementEntryDTO `json:"entries"`
	Pagination PaginationInfo      `json:"pagination"`
}
