// Package businessflow contains the core business logic and use cases for the escrow settlement workflows
package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ankushsph/fuel/app/dto"
	"github.com/Ankushsph/fuel/config"
	"github.com/Ankushsph/fuel/models"
	"github.com/Ankushsph/fuel/repository"
	"github.com/Ankushsph/fuel/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EscrowFlow handles the fuel transaction lifecycle: recording a sale,
// verifying it, and settling it by moving funds from the driver wallet to
// the pump owner's wallet.
type EscrowFlow interface {
	CreateTransaction(ctx context.Context, req *dto.CreateFuelTransactionRequest) (*dto.FuelTransactionDTO, error)
	VerifyTransaction(ctx context.Context, req *dto.VerifyTransactionRequest) (*dto.FuelTransactionDTO, error)
	RejectTransaction(ctx context.Context, req *dto.RejectTransactionRequest) (*dto.FuelTransactionDTO, error)
	SettleTransaction(ctx context.Context, transactionID uint) (*dto.SettlementResultDTO, error)
	GetTransaction(ctx context.Context, transactionID uint) (*dto.FuelTransactionDTO, error)
	GetReceipt(ctx context.Context, transactionID uint) (*dto.ReceiptDTO, error)
	ListPumpTransactions(ctx context.Context, req *dto.ListPumpTransactionsRequest) (*dto.TransactionPageDTO, error)
	ListDriverTransactions(ctx context.Context, req *dto.ListDriverTransactionsRequest) (*dto.TransactionPageDTO, error)
	GetPendingVerifications(ctx context.Context, pumpID uint) ([]dto.FuelTransactionDTO, error)
	GetDailySales(ctx context.Context, pumpID uint, day time.Time) (*dto.DailySalesDTO, error)
}

// EscrowFlowImpl implements the escrow business flow
type EscrowFlowImpl struct {
	transactionRepo  repository.FuelTransactionRepository
	pumpRepo         repository.PumpRepository
	vehicleRepo      repository.VehicleRepository
	driverRepo       repository.DriverRepository
	driverWalletRepo repository.DriverWalletRepository
	pumpWalletRepo   repository.PumpWalletRepository
	ledgerRepo       repository.WalletLedgerRepository
	resolver         DriverResolver
	notifier         Notifier
	db               *gorm.DB
	escrowCfg        config.EscrowConfig
}

// NewEscrowFlow creates a new escrow flow instance
func NewEscrowFlow(
	transactionRepo repository.FuelTransactionRepository,
	pumpRepo repository.PumpRepository,
	vehicleRepo repository.VehicleRepository,
	driverRepo repository.DriverRepository,
	driverWalletRepo repository.DriverWalletRepository,
	pumpWalletRepo repository.PumpWalletRepository,
	ledgerRepo repository.WalletLedgerRepository,
	resolver DriverResolver,
	notifier Notifier,
	db *gorm.DB,
	escrowCfg config.EscrowConfig,
) EscrowFlow {
	return &EscrowFlowImpl{
		transactionRepo:  transactionRepo,
		pumpRepo:         pumpRepo,
		vehicleRepo:      vehicleRepo,
		driverRepo:       driverRepo,
		driverWalletRepo: driverWalletRepo,
		pumpWalletRepo:   pumpWalletRepo,
		ledgerRepo:       ledgerRepo,
		resolver:         resolver,
		notifier:         notifier,
		db:               db,
		escrowCfg:        escrowCfg,
	}
}

// CreateTransaction records a fuel sale. The amount is computed once from
// litres and unit price; no money moves until settlement.
func (f *EscrowFlowImpl) CreateTransaction(ctx context.Context, req *dto.CreateFuelTransactionRequest) (*dto.FuelTransactionDTO, error) {
	if req.QuantityLitres <= 0 || req.UnitPrice <= 0 {
		return nil, ErrAmountsMustBePositive
	}

	pump, err := f.pumpRepo.ByID(ctx, req.PumpID)
	if err != nil {
		return nil, err
	}
	if pump == nil {
		return nil, ErrPumpNotFound
	}

	level := models.VerificationLevel(req.VerificationLevel)
	if level == "" {
		level = models.VerificationLevelManual
	}

	extra := map[string]any{}
	for k, v := range req.ExtraData {
		extra[k] = v
	}

	transaction := &models.FuelTransaction{
		PumpID:            req.PumpID,
		VehicleNumber:     models.NormalizePlate(req.VehicleNumber),
		FuelType:          req.FuelType,
		QuantityLitres:    req.QuantityLitres,
		UnitPrice:         req.UnitPrice,
		Amount:            models.ComputeAmount(req.QuantityLitres, req.UnitPrice),
		Status:            models.FuelTransactionStatusPendingVerification,
		VerificationLevel: level,
		AttendantID:       req.AttendantID,
		ExtraData:         extra,
	}
	if err := f.transactionRepo.Save(ctx, transaction); err != nil {
		return nil, err
	}

	result := dto.NewFuelTransactionDTO(transaction)
	return &result, nil
}

// VerifyTransaction confirms a pending sale. Terminal transactions report
// "already processed"; a transaction already verified is an invalid-state
// error, not a second verification.
func (f *EscrowFlowImpl) VerifyTransaction(ctx context.Context, req *dto.VerifyTransactionRequest) (*dto.FuelTransactionDTO, error) {
	var result dto.FuelTransactionDTO

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		transaction, err := f.transactionRepo.ByIDForUpdate(txCtx, req.TransactionID)
		if err != nil {
			return err
		}
		if transaction == nil {
			return ErrTransactionNotFound
		}
		if transaction.IsTerminal() {
			return ErrTransactionProcessed
		}
		if !transaction.CanVerify() {
			return ErrInvalidState
		}

		now := utils.UTCNow()
		if transaction.ExtraData == nil {
			transaction.ExtraData = map[string]any{}
		}
		if req.Notes != "" {
			transaction.ExtraData[models.ExtraDataVerificationNotes] = req.Notes
		}

		ok, err := f.transactionRepo.UpdateStatusIf(txCtx, transaction.ID,
			models.FuelTransactionStatusPendingVerification,
			models.FuelTransactionStatusVerified,
			map[string]any{
				"verifier_id": req.VerifierID,
				"verified_at": now,
				"extra_data":  transaction.ExtraData,
			})
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		transaction.Status = models.FuelTransactionStatusVerified
		transaction.VerifierID = &req.VerifierID
		transaction.VerifiedAt = &now
		result = dto.NewFuelTransactionDTO(transaction)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RejectTransaction declines a pending sale. Rejection is terminal and no
// funds move.
func (f *EscrowFlowImpl) RejectTransaction(ctx context.Context, req *dto.RejectTransactionRequest) (*dto.FuelTransactionDTO, error) {
	var result dto.FuelTransactionDTO

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		transaction, err := f.transactionRepo.ByIDForUpdate(txCtx, req.TransactionID)
		if err != nil {
			return err
		}
		if transaction == nil {
			return ErrTransactionNotFound
		}
		if transaction.IsTerminal() {
			return ErrTransactionProcessed
		}
		if !transaction.CanVerify() {
			return ErrInvalidState
		}

		if transaction.ExtraData == nil {
			transaction.ExtraData = map[string]any{}
		}
		if req.Notes != "" {
			transaction.ExtraData[models.ExtraDataRejectionNotes] = req.Notes
		}

		ok, err := f.transactionRepo.UpdateStatusIf(txCtx, transaction.ID,
			models.FuelTransactionStatusPendingVerification,
			models.FuelTransactionStatusRejected,
			map[string]any{
				"verifier_id": req.VerifierID,
				"extra_data":  transaction.ExtraData,
			})
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		transaction.Status = models.FuelTransactionStatusRejected
		transaction.VerifierID = &req.VerifierID
		result = dto.NewFuelTransactionDTO(transaction)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SettleTransaction moves the transaction amount from the driver wallet to
// the pump owner's wallet in one database transaction: both balances and
// the paired ledger entries commit together or not at all.
//
// Resolution and funds failures are business outcomes (status failed plus
// a failure reason), so a batch caller can keep going. A missing pump
// wallet is an operator configuration fault and rolls everything back.
func (f *EscrowFlowImpl) SettleTransaction(ctx context.Context, transactionID uint) (*dto.SettlementResultDTO, error) {
	var result *dto.SettlementResultDTO

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		transaction, err := f.transactionRepo.ByIDForUpdate(txCtx, transactionID)
		if err != nil {
			return err
		}
		if transaction == nil {
			return ErrTransactionNotFound
		}
		if transaction.IsTerminal() {
			return ErrTransactionProcessed
		}
		if !transaction.CanSettle() {
			return ErrVerificationRequired
		}

		resolved, err := f.resolver.Resolve(txCtx, transaction.VehicleNumber)
		if err != nil {
			return err
		}
		if resolved == nil {
			reason := fmt.Sprintf("Vehicle %s is not linked to any driver wallet", transaction.VehicleNumber)
			result, err = f.failSettlement(txCtx, transaction, reason)
			return err
		}

		// Lock order is fixed: driver wallet first, then pump wallet
		driverWallet, err := f.driverWalletRepo.LockByID(txCtx, resolved.WalletID)
		if err != nil {
			return err
		}
		if driverWallet == nil {
			return ErrDriverWalletNotFound
		}

		if driverWallet.Balance.LessThan(transaction.Amount) {
			reason := fmt.Sprintf("Insufficient driver balance: %s < %s",
				driverWallet.Balance.StringFixed(2), transaction.Amount.StringFixed(2))
			result, err = f.failSettlement(txCtx, transaction, reason)
			return err
		}

		pump, err := f.pumpRepo.ByID(txCtx, transaction.PumpID)
		if err != nil {
			return err
		}
		if pump == nil {
			return NewEscrowError("PUMP_NOT_FOUND",
				fmt.Sprintf("Pump %d no longer exists", transaction.PumpID), ErrPumpNotFound)
		}

		pumpWallet, err := f.pumpWalletRepo.ByOwnerID(txCtx, pump.OwnerID)
		if err != nil {
			return err
		}
		if pumpWallet == nil {
			return NewEscrowError("PUMP_WALLET_MISSING",
				fmt.Sprintf("No wallet configured for pump owner %d", pump.OwnerID), ErrPumpWalletNotFound)
		}
		pumpWallet, err = f.pumpWalletRepo.LockByID(txCtx, pumpWallet.ID)
		if err != nil {
			return err
		}
		if pumpWallet == nil {
			return ErrPumpWalletNotFound
		}

		group := uuid.New()
		now := utils.UTCNow()
		newDriverBalance := driverWallet.Balance.Sub(transaction.Amount)
		newPumpBalance := pumpWallet.Balance.Add(transaction.Amount)

		if err := f.driverWalletRepo.UpdateBalance(txCtx, driverWallet.ID, newDriverBalance); err != nil {
			return err
		}
		if err := f.pumpWalletRepo.UpdateBalance(txCtx, pumpWallet.ID, newPumpBalance); err != nil {
			return err
		}

		referenceID := transaction.ID
		entries := []*models.WalletLedgerEntry{
			{
				GroupUUID:     group,
				EventType:     models.LedgerEventFuelSale,
				Direction:     models.LedgerDirectionDebit,
				WalletType:    models.WalletTypeDriver,
				WalletID:      driverWallet.ID,
				Amount:        transaction.Amount,
				BalanceAfter:  newDriverBalance,
				ReferenceID:   &referenceID,
				ReferenceType: models.ReferenceTypeFuelTransaction,
			},
			{
				GroupUUID:     group,
				EventType:     models.LedgerEventFuelSale,
				Direction:     models.LedgerDirectionCredit,
				WalletType:    models.WalletTypePump,
				WalletID:      pumpWallet.ID,
				Amount:        transaction.Amount,
				BalanceAfter:  newPumpBalance,
				ReferenceID:   &referenceID,
				ReferenceType: models.ReferenceTypeFuelTransaction,
			},
		}
		if err := f.ledgerRepo.SaveBatch(txCtx, entries); err != nil {
			return err
		}

		if transaction.ExtraData == nil {
			transaction.ExtraData = map[string]any{}
		}
		transaction.ExtraData[models.ExtraDataSettlement] = map[string]any{
			"group_uuid":            group.String(),
			"driver_wallet_id":      driverWallet.ID,
			"pump_wallet_id":        pumpWallet.ID,
			"driver_balance_before": driverWallet.Balance.StringFixed(2),
			"driver_balance_after":  newDriverBalance.StringFixed(2),
			"pump_balance_before":   pumpWallet.Balance.StringFixed(2),
			"pump_balance_after":    newPumpBalance.StringFixed(2),
			"settled_at":            now.Format(time.RFC3339),
		}

		ok, err := f.transactionRepo.UpdateStatusIf(txCtx, transaction.ID,
			models.FuelTransactionStatusVerified,
			models.FuelTransactionStatusSettled,
			map[string]any{
				"settled_at": now,
				"extra_data": transaction.ExtraData,
			})
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransactionProcessed
		}

		transaction.Status = models.FuelTransactionStatusSettled
		transaction.SettledAt = &now
		settled := dto.NewFuelTransactionDTO(transaction)
		groupStr := group.String()
		result = &dto.SettlementResultDTO{
			Outcome:     dto.SettlementOutcomeSettled,
			Transaction: settled,
			GroupUUID:   &groupStr,
		}
		return nil
	})
	if err != nil {
		if IsPumpWalletNotFound(err) || IsPumpNotFound(err) {
			settlementsTotal.WithLabelValues("config_error").Inc()
		}
		return nil, err
	}

	f.recordSettlementOutcome(ctx, result)
	return result, nil
}

// failSettlement marks a verified transaction failed with a reason. It
// runs inside the caller's transaction; the status flip still commits even
// though no funds move.
func (f *EscrowFlowImpl) failSettlement(ctx context.Context, transaction *models.FuelTransaction, reason string) (*dto.SettlementResultDTO, error) {
	if transaction.ExtraData == nil {
		transaction.ExtraData = map[string]any{}
	}
	transaction.ExtraData[models.ExtraDataFailureReason] = reason

	ok, err := f.transactionRepo.UpdateStatusIf(ctx, transaction.ID,
		models.FuelTransactionStatusVerified,
		models.FuelTransactionStatusFailed,
		map[string]any{
			"extra_data": transaction.ExtraData,
		})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTransactionProcessed
	}

	transaction.Status = models.FuelTransactionStatusFailed
	failed := dto.NewFuelTransactionDTO(transaction)
	return &dto.SettlementResultDTO{
		Outcome:       dto.SettlementOutcomeFailed,
		Transaction:   failed,
		FailureReason: reason,
	}, nil
}

// recordSettlementOutcome emits metrics and notifications after the
// settlement transaction has committed
func (f *EscrowFlowImpl) recordSettlementOutcome(ctx context.Context, result *dto.SettlementResultDTO) {
	transaction := &models.FuelTransaction{
		ID:            result.Transaction.ID,
		PumpID:        result.Transaction.PumpID,
		VehicleNumber: result.Transaction.VehicleNumber,
		Amount:        result.Transaction.Amount,
		Status:        models.FuelTransactionStatus(result.Transaction.Status),
	}

	switch result.Outcome {
	case dto.SettlementOutcomeSettled:
		settlementsTotal.WithLabelValues("settled").Inc()
		amount, _ := result.Transaction.Amount.Float64()
		settledAmountTotal.Add(amount)
		if f.notifier != nil {
			f.notifier.TransactionSettled(ctx, transaction, *result.GroupUUID)
		}
	case dto.SettlementOutcomeFailed:
		settlementsTotal.WithLabelValues("failed").Inc()
		log.Printf("settlement failed for transaction %d: %s", result.Transaction.ID, result.FailureReason)
		if f.notifier != nil {
			f.notifier.TransactionFailed(ctx, transaction, result.FailureReason)
		}
	}
}

// GetTransaction returns one transaction by ID
func (f *EscrowFlowImpl) GetTransaction(ctx context.Context, transactionID uint) (*dto.FuelTransactionDTO, error) {
	transaction, err := f.transactionRepo.ByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	result := dto.NewFuelTransactionDTO(transaction)
	return &result, nil
}

// GetReceipt assembles the derived receipt view of a transaction: sale
// details, pump and driver display blocks, and the ledger entries that
// settled it. Calling it twice returns the same data and writes nothing.
func (f *EscrowFlowImpl) GetReceipt(ctx context.Context, transactionID uint) (*dto.ReceiptDTO, error) {
	transaction, err := f.transactionRepo.ByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}

	pump, err := f.pumpRepo.ByID(ctx, transaction.PumpID)
	if err != nil {
		return nil, err
	}
	if pump == nil {
		return nil, ErrPumpNotFound
	}

	entries, err := f.ledgerRepo.ByReference(ctx, models.ReferenceTypeFuelTransaction, transaction.ID)
	if err != nil {
		return nil, err
	}

	receipt := &dto.ReceiptDTO{
		TransactionID:     transaction.ID,
		GroupUUID:         settlementGroupUUID(transaction),
		VehicleNumber:     transaction.VehicleNumber,
		FuelType:          transaction.FuelType,
		QuantityLitres:    transaction.QuantityLitres,
		UnitPrice:         transaction.UnitPrice,
		Amount:            transaction.Amount,
		Currency:          f.escrowCfg.Currency,
		Status:            string(transaction.Status),
		VerificationLevel: string(transaction.VerificationLevel),
		Pump: dto.ReceiptPumpDTO{
			ID:       pump.ID,
			Name:     pump.Name,
			Location: pump.Location,
		},
		CreatedAt:     transaction.CreatedAt.Format(time.RFC3339),
		VerifiedAt:    utils.FormatTimePtr(transaction.VerifiedAt, time.RFC3339),
		SettledAt:     utils.FormatTimePtr(transaction.SettledAt, time.RFC3339),
		LedgerEntries: make([]dto.ReceiptLedgerEntryDTO, 0, len(entries)),
	}

	vehicle, err := f.vehicleRepo.ByPlate(ctx, transaction.VehicleNumber)
	if err != nil {
		return nil, err
	}
	if vehicle != nil {
		driver, err := f.driverRepo.ByID(ctx, vehicle.DriverID)
		if err != nil {
			return nil, err
		}
		if driver != nil {
			receipt.Driver = &dto.ReceiptDriverDTO{
				ID:       driver.ID,
				FullName: driver.FullName,
				Email:    driver.Email,
			}
		}
	}

	for _, entry := range entries {
		receipt.LedgerEntries = append(receipt.LedgerEntries, dto.ReceiptLedgerEntryDTO{
			Direction:    string(entry.Direction),
			WalletType:   string(entry.WalletType),
			Amount:       entry.Amount,
			BalanceAfter: entry.BalanceAfter,
			CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
		})
	}

	return receipt, nil
}

// settlementGroupUUID extracts the ledger group UUID from the settlement
// snapshot, if the transaction has settled
func settlementGroupUUID(transaction *models.FuelTransaction) *string {
	snapshot, ok := transaction.ExtraData[models.ExtraDataSettlement].(map[string]any)
	if !ok {
		return nil
	}
	group, ok := snapshot["group_uuid"].(string)
	if !ok {
		return nil
	}
	return &group
}

// ListPumpTransactions pages through a pump's transactions, newest first
func (f *EscrowFlowImpl) ListPumpTransactions(ctx context.Context, req *dto.ListPumpTransactionsRequest) (*dto.TransactionPageDTO, error) {
	pump, err := f.pumpRepo.ByID(ctx, req.PumpID)
	if err != nil {
		return nil, err
	}
	if pump == nil {
		return nil, ErrPumpNotFound
	}

	limit, offset, err := normalizePage(req.Limit, req.Offset, f.escrowCfg)
	if err != nil {
		return nil, err
	}

	filter := models.FuelTransactionFilter{PumpID: &req.PumpID}
	if req.Status != nil {
		status := models.FuelTransactionStatus(*req.Status)
		filter.Status = &status
	}

	return f.listTransactions(ctx, filter, limit, offset)
}

// ListDriverTransactions pages through a driver's transactions across all
// of their registered vehicles, newest first
func (f *EscrowFlowImpl) ListDriverTransactions(ctx context.Context, req *dto.ListDriverTransactionsRequest) (*dto.TransactionPageDTO, error) {
	driver, err := f.driverRepo.ByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, ErrDriverNotFound
	}

	limit, offset, err := normalizePage(req.Limit, req.Offset, f.escrowCfg)
	if err != nil {
		return nil, err
	}

	vehicles, err := f.vehicleRepo.ListByDriver(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return &dto.TransactionPageDTO{
			Transactions: []dto.FuelTransactionDTO{},
			Pagination:   dto.PaginationInfo{Total: 0, Limit: limit, Offset: offset},
		}, nil
	}

	plates := make([]string, 0, len(vehicles))
	for _, vehicle := range vehicles {
		plates = append(plates, vehicle.Plate)
	}

	return f.listTransactions(ctx, models.FuelTransactionFilter{VehicleNumbers: plates}, limit, offset)
}

func (f *EscrowFlowImpl) listTransactions(ctx context.Context, filter models.FuelTransactionFilter, limit, offset int) (*dto.TransactionPageDTO, error) {
	total, err := f.transactionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	transactions, err := f.transactionRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, err
	}

	page := &dto.TransactionPageDTO{
		Transactions: make([]dto.FuelTransactionDTO, 0, len(transactions)),
		Pagination:   dto.PaginationInfo{Total: total, Limit: limit, Offset: offset},
	}
	for _, transaction := range transactions {
		page.Transactions = append(page.Transactions, dto.NewFuelTransactionDTO(transaction))
	}
	return page, nil
}

// GetPendingVerifications returns the pump's transactions awaiting
// verification, oldest first
func (f *EscrowFlowImpl) GetPendingVerifications(ctx context.Context, pumpID uint) ([]dto.FuelTransactionDTO, error) {
	pump, err := f.pumpRepo.ByID(ctx, pumpID)
	if err != nil {
		return nil, err
	}
	if pump == nil {
		return nil, ErrPumpNotFound
	}

	transactions, err := f.transactionRepo.ListPendingForPump(ctx, pumpID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.FuelTransactionDTO, 0, len(transactions))
	for _, transaction := range transactions {
		result = append(result, dto.NewFuelTransactionDTO(transaction))
	}
	return result, nil
}

// GetDailySales summarizes one pump's settled sales for one day. Only
// settled rows count toward revenue.
func (f *EscrowFlowImpl) GetDailySales(ctx context.Context, pumpID uint, day time.Time) (*dto.DailySalesDTO, error) {
	pump, err := f.pumpRepo.ByID(ctx, pumpID)
	if err != nil {
		return nil, err
	}
	if pump == nil {
		return nil, ErrPumpNotFound
	}

	transactions, err := f.transactionRepo.ListSettledInWindow(ctx, pumpID,
		utils.StartOfDay(day), utils.EndOfDay(day))
	if err != nil {
		return nil, err
	}

	summary := &dto.DailySalesDTO{
		Date:              utils.StartOfDay(day).Format("2006-01-02"),
		PumpID:            pumpID,
		TotalTransactions: len(transactions),
		TotalAmount:       decimal.Zero,
		Transactions:      make([]dto.DailySalesItemDTO, 0, len(transactions)),
	}
	for _, transaction := range transactions {
		summary.TotalAmount = summary.TotalAmount.Add(transaction.Amount)
		summary.TotalQuantity += transaction.QuantityLitres
		summary.Transactions = append(summary.Transactions, dto.DailySalesItemDTO{
			ID:             transaction.ID,
			VehicleNumber:  transaction.VehicleNumber,
			FuelType:       transaction.FuelType,
			QuantityLitres: transaction.QuantityLitres,
			Amount:         transaction.Amount,
			SettledAt:      utils.FormatTimePtr(transaction.SettledAt, time.RFC3339),
		})
	}
	return summary, nil
}

// normalizePage applies the configured listing defaults and bounds
func normalizePage(limit, offset int, cfg config.EscrowConfig) (int, int, error) {
	if limit == 0 {
		limit = cfg.DefaultPageSize
	}
	if limit < 0 || limit > cfg.MaxPageSize {
		return 0, 0, ErrInvalidPageSize
	}
	if offset < 0 {
		return 0, 0, ErrInvalidPage
	}
	return limit, offset, nil
}
