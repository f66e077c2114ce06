package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FuelTransactionStatus represents the current state of a fuel sale
type FuelTransactionStatus string

const (
	FuelTransactionStatusPendingVerification FuelTransactionStatus = "pending_verification" // Recorded, awaiting verifier
	FuelTransactionStatusVerified            FuelTransactionStatus = "verified"             // Confirmed, ready to settle
	FuelTransactionStatusSettled             FuelTransactionStatus = "settled"              // Funds moved, terminal
	FuelTransactionStatusFailed              FuelTransactionStatus = "failed"               // Settlement failed as business outcome, terminal
	FuelTransactionStatusRejected            FuelTransactionStatus = "rejected"             // Declined by verifier, terminal
)

// VerificationLevel describes how the sale's amount and quantity were
// captured. It is provenance, not a trust tier.
type VerificationLevel string

const (
	VerificationLevelManual   VerificationLevel = "manual"
	VerificationLevelSemiAuto VerificationLevel = "semi_auto"
	VerificationLevelAuto     VerificationLevel = "auto"
)

// ExtraData keys written by the escrow flow.
const (
	ExtraDataFailureReason     = "failure_reason"
	ExtraDataVerificationNotes = "verification_notes"
	ExtraDataRejectionNotes    = "rejection_notes"
	ExtraDataSettlement        = "settlement"
)

// FuelTransaction is the per-sale record and the subject of the escrow
// state machine. Amount is computed once at creation and never changes;
// status transitions are monotonic and the record is never deleted.
type FuelTransaction struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	PumpID        uint   `gorm:"not null;index" json:"pump_id"`
	VehicleNumber string `gorm:"type:varchar(50);not null;index" json:"vehicle_number"`
	FuelType      string `gorm:"type:varchar(20);not null" json:"fuel_type"`

	QuantityLitres float64         `gorm:"not null" json:"quantity_litres"`
	UnitPrice      float64         `gorm:"not null" json:"unit_price"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`

	Status            FuelTransactionStatus `gorm:"type:varchar(30);not null;default:'pending_verification';index" json:"status"`
	VerificationLevel VerificationLevel     `gorm:"type:varchar(20);not null;default:'manual'" json:"verification_level"`

	AttendantID uint  `gorm:"not null" json:"attendant_id"`
	VerifierID  *uint `json:"verifier_id,omitempty"`

	// Open bag for provenance and diagnostics (OCR confidence, failure
	// reasons, settlement snapshot). Never a source of financial truth.
	ExtraData map[string]any `gorm:"type:jsonb;serializer:json;default:'{}'" json:"extra_data"`

	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	SettledAt  *time.Time `json:"settled_at,omitempty"`

	Pump Pump `gorm:"foreignKey:PumpID" json:"pump,omitempty"`
}

// BeforeCreate ensures UUID is set and the plate is normalized
func (t *FuelTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	t.VehicleNumber = NormalizePlate(t.VehicleNumber)
	return nil
}

// IsTerminal returns true once the transaction can no longer change state
func (t *FuelTransaction) IsTerminal() bool {
	return t.Status == FuelTransactionStatusSettled ||
		t.Status == FuelTransactionStatusFailed ||
		t.Status == FuelTransactionStatusRejected
}

// CanVerify returns true if the transaction is still awaiting verification
func (t *FuelTransaction) CanVerify() bool {
	return t.Status == FuelTransactionStatusPendingVerification
}

// CanSettle returns true if the transaction is verified and unsettled
func (t *FuelTransaction) CanSettle() bool {
	return t.Status == FuelTransactionStatusVerified
}

// ComputeAmount computes the sale amount from litres and unit price,
// rounded half-up to 2 decimal places.
func ComputeAmount(quantityLitres, unitPrice float64) decimal.Decimal {
	return decimal.NewFromFloat(quantityLitres).
		Mul(decimal.NewFromFloat(unitPrice)).
		Round(2)
}

// FuelTransactionFilter represents filter criteria for fuel transaction queries
type FuelTransactionFilter struct {
	ID             *uint                  `json:"id,omitempty"`
	UUID           *uuid.UUID             `json:"uuid,omitempty"`
	PumpID         *uint                  `json:"pump_id,omitempty"`
	VehicleNumbers []string               `json:"vehicle_numbers,omitempty"`
	Status         *FuelTransactionStatus `json:"status,omitempty"`
	CreatedAfter   *time.Time             `json:"created_after,omitempty"`
	CreatedBefore  *time.Time             `json:"created_before,omitempty"`
}
