package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PumpSettlementStatus represents the processing state of a payout request
type PumpSettlementStatus string

const (
	PumpSettlementStatusPending  PumpSettlementStatus = "pending"
	PumpSettlementStatusApproved PumpSettlementStatus = "approved"
	PumpSettlementStatusRejected PumpSettlementStatus = "rejected"
)

// PumpSettlement is a pump owner's request to convert wallet balance into
// an off-platform bank transfer. The wallet is not debited at request time;
// the deduction happens atomically with admin approval.
type PumpSettlement struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	PumpWalletID uint `gorm:"not null;index" json:"pump_wallet_id"`
	PumpOwnerID  uint `gorm:"not null;index" json:"pump_owner_id"`

	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`

	Status        PumpSettlementStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	BankReference string               `gorm:"type:varchar(100)" json:"bank_reference"`
	Notes         string               `gorm:"type:text" json:"notes"`

	RequestedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	PumpWallet PumpWallet `gorm:"foreignKey:PumpWalletID" json:"pump_wallet,omitempty"`
	PumpOwner  PumpOwner  `gorm:"foreignKey:PumpOwnerID" json:"pump_owner,omitempty"`
}

// BeforeCreate ensures UUID is set
func (s *PumpSettlement) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	return nil
}

// IsPending returns true while the settlement can still be processed
func (s *PumpSettlement) IsPending() bool {
	return s.Status == PumpSettlementStatusPending
}

// PumpSettlementFilter represents filter criteria for settlement queries
type PumpSettlementFilter struct {
	ID          *uint                 `json:"id,omitempty"`
	PumpOwnerID *uint                 `json:"pump_owner_id,omitempty"`
	Status      *PumpSettlementStatus `json:"status,omitempty"`
}
