package handlers

import (
	"log"

	"github.com/Ankushsph/fuel/app/dto"
	businessflow "github.com/Ankushsph/fuel/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PayoutHandlerInterface defines the contract for payout handlers
type PayoutHandlerInterface interface {
	RequestSettlement(c fiber.Ctx) error
	ProcessSettlement(c fiber.Ctx) error
	ListSettlements(c fiber.Ctx) error
	GetSettlementSummary(c fiber.Ctx) error
}

// PayoutHandler handles pump settlement HTTP requests
type PayoutHandler struct {
	payoutFlow businessflow.PayoutFlow
	validator  *validator.Validate
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutFlow businessflow.PayoutFlow) *PayoutHandler {
	return &PayoutHandler{
		payoutFlow: payoutFlow,
		validator:  validator.New(),
	}
}

// RequestSettlement records a pending payout request
func (h *PayoutHandler) RequestSettlement(c fiber.Ctx) error {
	var req dto.RequestSettlementRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.payoutFlow.RequestSettlement(createRequestContext(c, "/api/v1/settlements"), &req)
	if err != nil {
		if businessflow.IsPumpOwnerNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump owner not found", "PUMP_OWNER_NOT_FOUND", nil)
		}
		if businessflow.IsPumpWalletNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump wallet not found", "PUMP_WALLET_NOT_FOUND", nil)
		}
		if businessflow.IsAmountTooLow(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Amount must be greater than zero", "AMOUNT_TOO_LOW", nil)
		}
		if businessflow.IsInsufficientFunds(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Amount exceeds available balance", "INSUFFICIENT_FUNDS", nil)
		}

		log.Println("Settlement request failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Settlement request failed", "SETTLEMENT_REQUEST_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Settlement requested", result)
}

// ProcessSettlement approves or rejects a pending payout
func (h *PayoutHandler) ProcessSettlement(c fiber.Ctx) error {
	var req dto.ProcessSettlementRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.payoutFlow.ProcessSettlement(createRequestContext(c, "/api/v1/settlements/process"), &req)
	if err != nil {
		if businessflow.IsSettlementNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Settlement not found", "SETTLEMENT_NOT_FOUND", nil)
		}
		if businessflow.IsSettlementProcessed(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Settlement already processed", "SETTLEMENT_ALREADY_PROCESSED", nil)
		}
		if businessflow.IsInvalidPayoutAction(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Action must be approve or reject", "INVALID_ACTION", nil)
		}
		if businessflow.IsInsufficientFunds(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Wallet balance no longer covers the amount", "INSUFFICIENT_FUNDS", nil)
		}
		if businessflow.IsPumpWalletNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump wallet not found", "PUMP_WALLET_NOT_FOUND", nil)
		}

		log.Println("Settlement processing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Settlement processing failed", "SETTLEMENT_PROCESS_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Settlement processed", result)
}

// ListSettlements pages through an owner's payout requests
func (h *PayoutHandler) ListSettlements(c fiber.Ctx) error {
	ownerID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner ID", "INVALID_OWNER_ID", err.Error())
	}

	req := dto.ListSettlementsRequest{
		PumpOwnerID: ownerID,
		Limit:       parseIntQuery(c, "limit", 0),
		Offset:      parseIntQuery(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.payoutFlow.ListSettlements(createRequestContext(c, "/api/v1/owners/:id/settlements"), &req)
	if err != nil {
		if businessflow.IsPumpOwnerNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump owner not found", "PUMP_OWNER_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Settlement listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Settlement listing failed", "SETTLEMENT_LIST_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Settlements retrieved", result)
}

// GetSettlementSummary reports an owner's balance and payout position
func (h *PayoutHandler) GetSettlementSummary(c fiber.Ctx) error {
	ownerID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner ID", "INVALID_OWNER_ID", err.Error())
	}

	result, err := h.payoutFlow.GetSettlementSummary(createRequestContext(c, "/api/v1/owners/:id/settlements/summary"), ownerID)
	if err != nil {
		if businessflow.IsPumpOwnerNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump owner not found", "PUMP_OWNER_NOT_FOUND", nil)
		}

		log.Println("Settlement summary failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Settlement summary failed", "SETTLEMENT_SUMMARY_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Settlement summary retrieved", result)
}
