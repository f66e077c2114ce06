package dto

import (
	"time"

	"github.com/Ankushsph/fuel/models"
	"github.com/shopspring/decimal"
)

// CreateFuelTransactionRequest records a fuel sale at a pump. No money
// moves; the transaction starts in pending_verification.
type CreateFuelTransactionRequest struct {
	PumpID            uint           `json:"pump_id" validate:"required"`
	VehicleNumber     string         `json:"vehicle_number" validate:"required,max=50"`
	FuelType          string         `json:"fuel_type" validate:"required,max=20"`
	QuantityLitres    float64        `json:"quantity_litres" validate:"required,gt=0"`
	UnitPrice         float64        `json:"unit_price" validate:"required,gt=0"`
	AttendantID       uint           `json:"attendant_id" validate:"required"`
	VerificationLevel string         `json:"verification_level" validate:"omitempty,oneof=manual semi_auto auto"`
	ExtraData         map[string]any `json:"extra_data,omitempty"`
}

// VerifyTransactionRequest confirms a recorded sale
type VerifyTransactionRequest struct {
	TransactionID uint   `json:"transaction_id" validate:"required"`
	VerifierID    uint   `json:"verifier_id" validate:"required"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// RejectTransactionRequest declines a recorded sale before settlement
type RejectTransactionRequest struct {
	TransactionID uint   `json:"transaction_id" validate:"required"`
	VerifierID    uint   `json:"verifier_id" validate:"required"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// FuelTransactionDTO is the API view of a fuel transaction
type FuelTransactionDTO struct {
	ID                uint            `json:"id"`
	UUID              string          `json:"uuid"`
	PumpID            uint            `json:"pump_id"`
	VehicleNumber     string          `json:"vehicle_number"`
	FuelType          string          `json:"fuel_type"`
	QuantityLitres    float64         `json:"quantity_litres"`
	UnitPrice         float64         `json:"unit_price"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	VerificationLevel string          `json:"verification_level"`
	AttendantID       uint            `json:"attendant_id"`
	VerifierID        *uint           `json:"verifier_id,omitempty"`
	ExtraData         map[string]any  `json:"extra_data,omitempty"`
	CreatedAt         string          `json:"created_at"`
	VerifiedAt        *string         `json:"verified_at,omitempty"`
	SettledAt         *string         `json:"settled_at,omitempty"`
}

// SettlementOutcome tags the result of a settle call. Resolution and funds
// failures are outcomes, not errors: a batch caller keeps going past them.
type SettlementOutcome string

const (
	SettlementOutcomeSettled SettlementOutcome = "settled"
	SettlementOutcomeFailed  SettlementOutcome = "failed"
)

// SettlementResultDTO is the tagged result of settling one transaction
type SettlementResultDTO struct {
	Outcome       SettlementOutcome  `json:"outcome"`
	Transaction   FuelTransactionDTO `json:"transaction"`
	GroupUUID     *string            `json:"group_uuid,omitempty"`
	FailureReason string             `json:"failure_reason,omitempty"`
}

// ReceiptLedgerEntryDTO is one ledger line on a receipt
type ReceiptLedgerEntryDTO struct {
	Direction    string          `json:"direction"`
	WalletType   string          `json:"wallet_type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    string          `json:"created_at"`
}

// ReceiptPumpDTO is the pump display block on a receipt
type ReceiptPumpDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// ReceiptDriverDTO is the driver display block on a receipt
type ReceiptDriverDTO struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ReceiptDTO is a derived, non-editable view of a transaction and its
// ledger entries. It is assembled on read and never stored.
type ReceiptDTO struct {
	TransactionID     uint                    `json:"transaction_id"`
	GroupUUID         *string                 `json:"group_uuid,omitempty"`
	VehicleNumber     string                  `json:"vehicle_number"`
	FuelType          string                  `json:"fuel_type"`
	QuantityLitres    float64                 `json:"quantity_litres"`
	UnitPrice         float64                 `json:"unit_price"`
	Amount            decimal.Decimal         `json:"amount"`
	Currency          string                  `json:"currency"`
	Status            string                  `json:"status"`
	VerificationLevel string                  `json:"verification_level"`
	Pump              ReceiptPumpDTO          `json:"pump"`
	Driver            *ReceiptDriverDTO       `json:"driver,omitempty"`
	CreatedAt         string                  `json:"created_at"`
	VerifiedAt        *string                 `json:"verified_at,omitempty"`
	SettledAt         *string                 `json:"settled_at,omitempty"`
	LedgerEntries     []ReceiptLedgerEntryDTO `json:"ledger_entries"`
}

// ListPumpTransactionsRequest pages through a pump's transactions
type ListPumpTransactionsRequest struct {
	PumpID uint    `json:"pump_id" validate:"required"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending_verification verified settled failed rejected"`
	Limit  int     `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset int     `json:"offset" validate:"omitempty,min=0"`
}

// ListDriverTransactionsRequest pages through a driver's transactions
// across all of their registered vehicles
type ListDriverTransactionsRequest struct {
	DriverID uint `json:"driver_id" validate:"required"`
	Limit    int  `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset   int  `json:"offset" validate:"omitempty,min=0"`
}

// TransactionPageDTO is one page of transactions plus paging metadata
type TransactionPageDTO struct {
	Transactions []FuelTransactionDTO `json:"transactions"`
	Pagination   PaginationInfo       `json:"pagination"`
}

// DailySalesItemDTO is one settled sale in a daily summary
type DailySalesItemDTO struct {
	ID             uint            `json:"id"`
	VehicleNumber  string          `json:"vehicle_number"`
	FuelType       string          `json:"fuel_type"`
	QuantityLitres float64         `json:"quantity_litres"`
	Amount         decimal.Decimal `json:"amount"`
	SettledAt      *string         `json:"settled_at,omitempty"`
}

// DailySalesDTO summarizes one pump's settled sales for one day
type DailySalesDTO struct {
	Date              string              `json:"date"`
	PumpID            uint                `json:"pump_id"`
	TotalTransactions int                 `json:"total_transactions"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	TotalQuantity     float64             `json:"total_quantity"`
	Transactions      []DailySalesItemDTO `json:"transactions"`
}

// NewFuelTransactionDTO maps a model to its API view
func NewFuelTransactionDTO(t *models.FuelTransaction) FuelTransactionDTO {
	dto := FuelTransactionDTO{
		ID:                t.ID,
		UUID:              t.UUID.String(),
		PumpID:            t.PumpID,
		VehicleNumber:     t.VehicleNumber,
		FuelType:          t.FuelType,
		QuantityLitres:    t.QuantityLitres,
		UnitPrice:         t.UnitPrice,
		Amount:            t.Amount,
		Status:            string(t.Status),
		VerificationLevel: string(t.VerificationLevel),
		AttendantID:       t.AttendantID,
		VerifierID:        t.VerifierID,
		ExtraData:         t.ExtraData,
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
	}
	if t.VerifiedAt != nil {
		s := t.VerifiedAt.Format(time.RFC3339)
		dto.VerifiedAt = &s
	}
	if t.SettledAt != nil {
		s := t.SettledAt.Format(time.RFC3339)
		dto.SettledAt = &s
	}
	return dto
}
