package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEventType classifies the business event behind a ledger entry
type LedgerEventType string

const (
	LedgerEventFuelSale    LedgerEventType = "fuel_sale"
	LedgerEventWalletTopup LedgerEventType = "wallet_topup"
	LedgerEventSettlement  LedgerEventType = "settlement"
	LedgerEventRefund      LedgerEventType = "refund"
)

// LedgerDirection is the side of the double entry
type LedgerDirection string

const (
	LedgerDirectionDebit  LedgerDirection = "debit"
	LedgerDirectionCredit LedgerDirection = "credit"
)

// Reference types linking ledger entries back to their causing record
const (
	ReferenceTypeFuelTransaction = "fuel_transaction"
	ReferenceTypePumpSettlement  = "pump_settlement"
	ReferenceTypeTopup           = "wallet_topup"
)

// WalletLedgerEntry is the immutable, append-only record of one wallet's
// balance change. Entries tied to a fuel settlement are created in matched
// debit/credit pairs under one group UUID, and the debit and credit sums
// under that UUID are always equal. Entries are never updated or deleted;
// the model deliberately has no UpdatedAt or DeletedAt.
type WalletLedgerEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupUUID uuid.UUID `gorm:"type:uuid;not null;index" json:"group_uuid"`

	EventType LedgerEventType `gorm:"type:varchar(20);not null;index" json:"event_type"`
	Direction LedgerDirection `gorm:"type:varchar(10);not null" json:"direction"`

	WalletType WalletType `gorm:"type:varchar(20);not null;index:idx_ledger_wallet" json:"wallet_type"`
	WalletID   uint       `gorm:"not null;index:idx_ledger_wallet" json:"wallet_id"`

	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"balance_after"`

	ReferenceID   *uint  `gorm:"index:idx_ledger_reference" json:"reference_id,omitempty"`
	ReferenceType string `gorm:"type:varchar(30);index:idx_ledger_reference" json:"reference_type"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// WalletLedgerEntryFilter represents filter criteria for ledger queries
type WalletLedgerEntryFilter struct {
	GroupUUID     *uuid.UUID       `json:"group_uuid,omitempty"`
	EventType     *LedgerEventType `json:"event_type,omitempty"`
	WalletType    *WalletType      `json:"wallet_type,omitempty"`
	WalletID      *uint            `json:"wallet_id,omitempty"`
	ReferenceID   *uint            `json:"reference_id,omitempty"`
	ReferenceType *string          `json:"reference_type,omitempty"`
}
