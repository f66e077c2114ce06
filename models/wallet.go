package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletType identifies which wallet table a ledger entry refers to.
// Ledger entries carry (wallet_type, wallet_id) instead of a foreign key
// because they span both wallet tables.
type WalletType string

const (
	WalletTypeDriver WalletType = "driver_wallet"
	WalletTypePump   WalletType = "pump_wallet"
	WalletTypeEscrow WalletType = "escrow"
)

// DriverWallet holds the current prepaid balance for a driver.
//
// The balance column is only ever mutated inside a transaction that also
// writes a ledger entry; direct balance writes are a design violation.
type DriverWallet struct {
	ID       uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID     uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	DriverID uint            `gorm:"not null;uniqueIndex" json:"driver_id"`
	Balance  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"balance"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Driver Driver `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"driver,omitempty"`
}

// BeforeCreate ensures UUID is set
func (w *DriverWallet) BeforeCreate(tx *gorm.DB) error {
	if w.UUID == uuid.Nil {
		w.UUID = uuid.New()
	}
	return nil
}

// PumpWallet holds the settled-sales balance for a pump owner. One per owner.
type PumpWallet struct {
	ID      uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID    uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	OwnerID uint            `gorm:"not null;uniqueIndex" json:"owner_id"`
	Balance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"balance"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Owner PumpOwner `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
}

// BeforeCreate ensures UUID is set
func (w *PumpWallet) BeforeCreate(tx *gorm.DB) error {
	if w.UUID == uuid.Nil {
		w.UUID = uuid.New()
	}
	return nil
}
