package dto

import (
	"time"

	"github.com/Ankushsph/fuel/models"
	"github.com/shopspring/decimal"
)

// RequestSettlementRequest asks to convert pump wallet balance into a bank
// transfer. The wallet is not debited until an admin approves.
type RequestSettlementRequest struct {
	PumpOwnerID   uint            `json:"pump_owner_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	BankReference string          `json:"bank_reference,omitempty" validate:"omitempty,max=100"`
}

// ProcessSettlementRequest approves or rejects a pending payout
type ProcessSettlementRequest struct {
	SettlementID uint   `json:"settlement_id" validate:"required"`
	Action       string `json:"action" validate:"required,oneof=approve reject"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// PumpSettlementDTO is the API view of a payout request
type PumpSettlementDTO struct {
	ID            uint            `json:"id"`
	UUID          string          `json:"uuid"`
	PumpWalletID  uint            `json:"pump_wallet_id"`
	PumpOwnerID   uint            `json:"pump_owner_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	BankReference string          `json:"bank_reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	RequestedAt   string          `json:"requested_at"`
	ProcessedAt   *string         `json:"processed_at,omitempty"`
}

// ListSettlementsRequest pages through an owner's payout requests
type ListSettlementsRequest struct {
	PumpOwnerID uint    `json:"pump_owner_id" validate:"required"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Limit       int     `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset      int     `json:"offset" validate:"omitempty,min=0"`
}

// SettlementPageDTO is one page of payout requests
type SettlementPageDTO struct {
	Settlements []PumpSettlementDTO `json:"settlements"`
	Pagination  PaginationInfo      `json:"pagination"`
}

// SettlementSummaryDTO reports an owner's available balance, the total
// still awaiting admin processing, and today's settled sales
type SettlementSummaryDTO struct {
	AvailableBalance   decimal.Decimal `json:"available_balance"`
	PendingSettlements decimal.Decimal `json:"pending_settlements"`
	TodaySales         decimal.Decimal `json:"today_sales"`
	Currency           string          `json:"currency"`
}

// NewPumpSettlementDTO maps a model to its API view
func NewPumpSettlementDTO(s *models.PumpSettlement) PumpSettlementDTO {
	dto := PumpSettlementDTO{
		ID:            s.ID,
		UUID:          s.UUID.String(),
		PumpWalletID:  s.PumpWalletID,
		PumpOwnerID:   s.PumpOwnerID,
		Amount:        s.Amount,
		Currency:      s.Currency,
		Status:        string(s.Status),
		BankReference: s.BankReference,
		Notes:         s.Notes,
		RequestedAt:   s.RequestedAt.Format(time.RFC3339),
	}
	if s.ProcessedAt != nil {
		p := s.ProcessedAt.Format(time.RFC3339)
		dto.ProcessedAt = &p
	}
	return dto
}
