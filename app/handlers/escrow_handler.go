package handlers

import (
	"log"
	"time"

	"github.com/Ankushsph/fuel/app/dto"
	businessflow "github.com/Ankushsph/fuel/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// EscrowHandlerInterface defines the contract for fuel transaction handlers
type EscrowHandlerInterface interface {
	CreateTransaction(c fiber.Ctx) error
	VerifyTransaction(c fiber.Ctx) error
	RejectTransaction(c fiber.Ctx) error
	SettleTransaction(c fiber.Ctx) error
	GetTransaction(c fiber.Ctx) error
	GetReceipt(c fiber.Ctx) error
	ListPumpTransactions(c fiber.Ctx) error
	ListDriverTransactions(c fiber.Ctx) error
	GetPendingVerifications(c fiber.Ctx) error
	GetDailySales(c fiber.Ctx) error
}

// EscrowHandler handles fuel transaction HTTP requests
type EscrowHandler struct {
	escrowFlow businessflow.EscrowFlow
	validator  *validator.Validate
}

// NewEscrowHandler creates a new escrow handler
func NewEscrowHandler(escrowFlow businessflow.EscrowFlow) *EscrowHandler {
	return &EscrowHandler{
		escrowFlow: escrowFlow,
		validator:  validator.New(),
	}
}

// CreateTransaction records a fuel sale at a pump
func (h *EscrowHandler) CreateTransaction(c fiber.Ctx) error {
	var req dto.CreateFuelTransactionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.escrowFlow.CreateTransaction(createRequestContext(c, "/api/v1/transactions"), &req)
	if err != nil {
		if businessflow.IsPumpNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump not found", "PUMP_NOT_FOUND", nil)
		}
		if businessflow.IsAmountsMustBePositive(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Quantity and unit price must be positive", "INVALID_AMOUNTS", nil)
		}

		log.Println("Transaction creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Transaction creation failed", "TRANSACTION_CREATE_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Transaction recorded", result)
}

// VerifyTransaction confirms a pending sale
func (h *EscrowHandler) VerifyTransaction(c fiber.Ctx) error {
	var req dto.VerifyTransactionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.escrowFlow.VerifyTransaction(createRequestContext(c, "/api/v1/transactions/verify"), &req)
	if err != nil {
		return h.transactionError(c, err, "Transaction verification failed", "TRANSACTION_VERIFY_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Transaction verified", result)
}

// RejectTransaction declines a pending sale
func (h *EscrowHandler) RejectTransaction(c fiber.Ctx) error {
	var req dto.RejectTransactionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.escrowFlow.RejectTransaction(createRequestContext(c, "/api/v1/transactions/reject"), &req)
	if err != nil {
		return h.transactionError(c, err, "Transaction rejection failed", "TRANSACTION_REJECT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Transaction rejected", result)
}

// SettleTransaction settles a verified sale. Resolution and funds
// failures come back as a failed outcome in the payload, not an error
// status.
func (h *EscrowHandler) SettleTransaction(c fiber.Ctx) error {
	transactionID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid transaction ID", "INVALID_TRANSACTION_ID", err.Error())
	}

	result, err := h.escrowFlow.SettleTransaction(createRequestContext(c, "/api/v1/transactions/:id/settle"), transactionID)
	if err != nil {
		if businessflow.IsPumpWalletNotFound(err) || businessflow.IsPumpNotFound(err) {
			log.Println("Settlement configuration fault", err)
			return ErrorResponse(c, fiber.StatusConflict, "Pump wallet is not configured", "PUMP_WALLET_MISSING", nil)
		}
		return h.transactionError(c, err, "Settlement failed", "SETTLEMENT_FAILED")
	}

	message := "Transaction settled"
	if result.Outcome == dto.SettlementOutcomeFailed {
		message = "Settlement recorded as failed"
	}
	return SuccessResponse(c, fiber.StatusOK, message, result)
}

// GetTransaction returns one transaction
func (h *EscrowHandler) GetTransaction(c fiber.Ctx) error {
	transactionID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid transaction ID", "INVALID_TRANSACTION_ID", err.Error())
	}

	result, err := h.escrowFlow.GetTransaction(createRequestContext(c, "/api/v1/transactions/:id"), transactionID)
	if err != nil {
		return h.transactionError(c, err, "Transaction lookup failed", "TRANSACTION_LOOKUP_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Transaction retrieved", result)
}

// GetReceipt returns the derived receipt view of a transaction
func (h *EscrowHandler) GetReceipt(c fiber.Ctx) error {
	transactionID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid transaction ID", "INVALID_TRANSACTION_ID", err.Error())
	}

	result, err := h.escrowFlow.GetReceipt(createRequestContext(c, "/api/v1/transactions/:id/receipt"), transactionID)
	if err != nil {
		return h.transactionError(c, err, "Receipt lookup failed", "RECEIPT_LOOKUP_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Receipt retrieved", result)
}

// ListPumpTransactions pages through a pump's transactions
func (h *EscrowHandler) ListPumpTransactions(c fiber.Ctx) error {
	pumpID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid pump ID", "INVALID_PUMP_ID", err.Error())
	}

	req := dto.ListPumpTransactionsRequest{
		PumpID: pumpID,
		Limit:  parseIntQuery(c, "limit", 0),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.escrowFlow.ListPumpTransactions(createRequestContext(c, "/api/v1/pumps/:id/transactions"), &req)
	if err != nil {
		if businessflow.IsPumpNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump not found", "PUMP_NOT_FOUND", nil)
		}
		return h.pageError(c, err, "Transaction listing failed", "TRANSACTION_LIST_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Transactions retrieved", result)
}

// ListDriverTransactions pages through a driver's transactions
func (h *EscrowHandler) ListDriverTransactions(c fiber.Ctx) error {
	driverID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid driver ID", "INVALID_DRIVER_ID", err.Error())
	}

	req := dto.ListDriverTransactionsRequest{
		DriverID: driverID,
		Limit:    parseIntQuery(c, "limit", 0),
		Offset:   parseIntQuery(c, "offset", 0),
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.escrowFlow.ListDriverTransactions(createRequestContext(c, "/api/v1/drivers/:id/transactions"), &req)
	if err != nil {
		if businessflow.IsDriverNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Driver not found", "DRIVER_NOT_FOUND", nil)
		}
		return h.pageError(c, err, "Transaction listing failed", "TRANSACTION_LIST_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Transactions retrieved", result)
}

// GetPendingVerifications returns a pump's transactions awaiting verification
func (h *EscrowHandler) GetPendingVerifications(c fiber.Ctx) error {
	pumpID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid pump ID", "INVALID_PUMP_ID", err.Error())
	}

	result, err := h.escrowFlow.GetPendingVerifications(createRequestContext(c, "/api/v1/pumps/:id/pending"), pumpID)
	if err != nil {
		if businessflow.IsPumpNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump not found", "PUMP_NOT_FOUND", nil)
		}
		log.Println("Pending verification listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Pending verification listing failed", "PENDING_LIST_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Pending verifications retrieved", result)
}

// GetDailySales summarizes one pump's settled sales for one day. The day
// defaults to today and accepts a date query in YYYY-MM-DD form.
func (h *EscrowHandler) GetDailySales(c fiber.Ctx) error {
	pumpID, err := parseUintParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid pump ID", "INVALID_PUMP_ID", err.Error())
	}

	day := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", "INVALID_DATE", dateStr)
		}
		day = parsed
	}

	result, err := h.escrowFlow.GetDailySales(createRequestContext(c, "/api/v1/pumps/:id/daily-sales"), pumpID, day)
	if err != nil {
		if businessflow.IsPumpNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Pump not found", "PUMP_NOT_FOUND", nil)
		}
		log.Println("Daily sales lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Daily sales lookup failed", "DAILY_SALES_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Daily sales retrieved", result)
}

// transactionError maps the shared transaction lifecycle errors
func (h *EscrowHandler) transactionError(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsTransactionNotFound(err) {
		return ErrorResponse(c, fiber.StatusNotFound, "Transaction not found", "TRANSACTION_NOT_FOUND", nil)
	}
	if businessflow.IsTransactionProcessed(err) {
		return ErrorResponse(c, fiber.StatusConflict, "Transaction already processed", "TRANSACTION_ALREADY_PROCESSED", nil)
	}
	if businessflow.IsVerificationRequired(err) {
		return ErrorResponse(c, fiber.StatusConflict, "Transaction must be verified first", "VERIFICATION_REQUIRED", nil)
	}
	if businessflow.IsInvalidState(err) {
		return ErrorResponse(c, fiber.StatusConflict, "Operation not allowed in current state", "INVALID_STATE", nil)
	}
	if businessflow.IsPumpNotFound(err) {
		return ErrorResponse(c, fiber.StatusNotFound, "Pump not found", "PUMP_NOT_FOUND", nil)
	}

	log.Println(message, err)
	return ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

// pageError maps pagination errors shared by the listing endpoints
func (h *EscrowHandler) pageError(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
	}

	log.Println(message, err)
	return ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}
