package handlers

import (
	"log"

	"github.com/Ankushsph/fuel/app/dto"
	businessflow "github.com/Ankushsph/fuel/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// WalletHandlerInterface defines the contract for wallet handlers
type WalletHandlerInterface interface {
	TopUpWallet(c fiber.Ctx) error
	GetDriverWalletBalance(c fiber.Ctx) error
	GetPumpWalletBalance(c fiber.Ctx) error
	GetWalletStatement(c fiber.Ctx) error
}

// WalletHandler handles wallet HTTP requests
type WalletHandler struct {
	walletFlow businessflow.WalletFlow
	validator  *validator.Validate
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletFlow businessflow.WalletFlow) *WalletHandler {
	return &WalletHandler{
		walletFlow: walletFlow,
		validator:  validator.New(),
	}
}

// TopUpWallet credits a driver wallet after a confirmed external payment
func (h *WalletHandler) TopUpWallet(c fiber.Ctx) error {
	var req dto.TopUpWalletRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.walletFlow.TopUpWallet(createRequestContext(c, "/api/v1/wallets/topup"), &req)
	if err != nil {
		if businessflow.IsDriverNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Driver not found", "DRIVER_NOT_FOUND", nil)
		}
		if businessflow.IsAmountTooLow(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Amount must be greater than zero", "AMOUNT_TOO_LOW", nil)
		}

		log.Println("Wallet top-up failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Wallet top-up failed", "WALLET_TOPUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Wallet topped up", result)
}

// GetDriverWalletBalance returns a driver's current balance
func (h *WalletHandler) GetDriverWalletBalance(c fiber.Ctx) error {
	driverID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid driver ID", "INVALID_DRIVER_ID", err.Error())
	}

	result, err := h.walletFlow.GetDriverWalletBalance(createRequestContext(c, "/api/v1/drivers/:id/wallet"), driverID)
	if err != nil {
		if businessflow.IsDriverNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Driver not found", "DRIVER_NOT_FOUND", nil)
		}

		log.Println("Wallet balance lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Wallet balance lookup failed", "WALLET_BALANCE_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Wallet balance retrieved", result)
}

// GetPumpWalletBalance returns a pump owner's current balance
func (h *WalletHandler) GetPumpWalletBalance(c fiber.Ctx) error {
	ownerID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner ID", "INVALID_OWNER_ID", err.Error())
	}

	result, err := h.walletFlow.GetPumpWalletBalance(createRequestContext(c, "/api/v1/owners/:id/wallet"), ownerID)
	if err != nil {
		if businessflow.IsPumpOwnerNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump owner not found", "PUMP_OWNER_NOT_FOUND", nil)
		}

		log.Println("Wallet balance lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Wallet balance lookup failed", "WALLET_BALANCE_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Wallet balance retrieved", result)
}

// GetWalletStatement pages through a wallet's ledger entries
func (h *WalletHandler) GetWalletStatement(c fiber.Ctx) error {
	walletID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid wallet ID", "INVALID_WALLET_ID", err.Error())
	}

	req := dto.WalletStatementRequest{
		WalletType: c.Query("wallet_type", "driver_wallet"),
		WalletID:   walletID,
		Limit:      parseIntQuery(c, "limit", 0),
		Offset:     parseIntQuery(c, "offset", 0),
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.walletFlow.GetWalletStatement(createRequestContext(c, "/api/v1/wallets/:id/statement"), &req)
	if err != nil {
		if businessflow.IsDriverWalletNotFound(err) || businessflow.IsPumpWalletNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Wallet not found", "WALLET_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Wallet statement lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Wallet statement lookup failed", "WALLET_STATEMENT_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Wallet statement retrieved", result)
}
