package businessflow

import (
	"context"
	"log"

	"github.com/Ankushsph/fuel/app/dto"
	"github.com/Ankushsph/fuel/config"
	"github.com/Ankushsph/fuel/models"
	"github.com/Ankushsph/fuel/repository"
	"github.com/Ankushsph/fuel/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayoutFlow handles pump owners converting wallet balance into bank
// transfers. A request holds no funds; the wallet is debited atomically
// when an admin approves, so the balance is re-checked at that point.
type PayoutFlow interface {
	RequestSettlement(ctx context.Context, req *dto.RequestSettlementRequest) (*dto.PumpSettlementDTO, error)
	ProcessSettlement(ctx context.Context, req *dto.ProcessSettlementRequest) (*dto.PumpSettlementDTO, error)
	ListSettlements(ctx context.Context, req *dto.ListSettlementsRequest) (*dto.SettlementPageDTO, error)
	GetSettlementSummary(ctx context.Context, ownerID uint) (*dto.SettlementSummaryDTO, error)
}

// PayoutFlowImpl implements the payout business flow
type PayoutFlowImpl struct {
	settlementRepo  repository.PumpSettlementRepository
	pumpOwnerRepo   repository.PumpOwnerRepository
	pumpWalletRepo  repository.PumpWalletRepository
	transactionRepo repository.FuelTransactionRepository
	ledgerRepo      repository.WalletLedgerRepository
	notifier        Notifier
	db              *gorm.DB
	escrowCfg       config.EscrowConfig
}

// NewPayoutFlow creates a new payout flow instance
func NewPayoutFlow(
	settlementRepo repository.PumpSettlementRepository,
	pumpOwnerRepo repository.PumpOwnerRepository,
	pumpWalletRepo repository.PumpWalletRepository,
	transactionRepo repository.FuelTransactionRepository,
	ledgerRepo repository.WalletLedgerRepository,
	notifier Notifier,
	db *gorm.DB,
	escrowCfg config.EscrowConfig,
) PayoutFlow {
	return &PayoutFlowImpl{
		settlementRepo:  settlementRepo,
		pumpOwnerRepo:   pumpOwnerRepo,
		pumpWalletRepo:  pumpWalletRepo,
		transactionRepo: transactionRepo,
		ledgerRepo:      ledgerRepo,
		notifier:        notifier,
		db:              db,
		escrowCfg:       escrowCfg,
	}
}

// RequestSettlement records a pending payout request. The amount must be
// covered by the current balance, but nothing is deducted yet; approval
// re-checks the balance before moving money.
func (f *PayoutFlowImpl) RequestSettlement(ctx context.Context, req *dto.RequestSettlementRequest) (*dto.PumpSettlementDTO, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrAmountTooLow
	}

	owner, err := f.pumpOwnerRepo.ByID(ctx, req.PumpOwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrPumpOwnerNotFound
	}

	wallet, err := f.pumpWalletRepo.ByOwnerID(ctx, req.PumpOwnerID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrPumpWalletNotFound
	}
	if wallet.Balance.LessThan(req.Amount) {
		return nil, ErrInsufficientFunds
	}

	settlement := &models.PumpSettlement{
		PumpWalletID:  wallet.ID,
		PumpOwnerID:   req.PumpOwnerID,
		Amount:        req.Amount,
		Currency:      f.escrowCfg.Currency,
		Status:        models.PumpSettlementStatusPending,
		BankReference: req.BankReference,
		RequestedAt:   utils.UTCNow(),
	}
	if err := f.settlementRepo.Save(ctx, settlement); err != nil {
		return nil, err
	}

	result := dto.NewPumpSettlementDTO(settlement)
	return &result, nil
}

// ProcessSettlement approves or rejects a pending payout. Approval locks
// the wallet, re-checks the balance, and commits the deduction together
// with its ledger entry; a request that is no longer pending reports
// "already processed".
func (f *PayoutFlowImpl) ProcessSettlement(ctx context.Context, req *dto.ProcessSettlementRequest) (*dto.PumpSettlementDTO, error) {
	if req.Action != "approve" && req.Action != "reject" {
		return nil, ErrInvalidPayoutAction
	}

	var result dto.PumpSettlementDTO

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		settlement, err := f.settlementRepo.ByIDForUpdate(txCtx, req.SettlementID)
		if err != nil {
			return err
		}
		if settlement == nil {
			return ErrSettlementNotFound
		}
		if !settlement.IsPending() {
			return ErrSettlementProcessed
		}

		now := utils.UTCNow()
		settlement.ProcessedAt = &now
		if req.Notes != "" {
			settlement.Notes = req.Notes
		}

		if req.Action == "reject" {
			settlement.Status = models.PumpSettlementStatusRejected
			if err := f.settlementRepo.Update(txCtx, settlement); err != nil {
				return err
			}
			result = dto.NewPumpSettlementDTO(settlement)
			return nil
		}

		wallet, err := f.pumpWalletRepo.LockByID(txCtx, settlement.PumpWalletID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return ErrPumpWalletNotFound
		}
		if wallet.Balance.LessThan(settlement.Amount) {
			return ErrInsufficientFunds
		}

		newBalance := wallet.Balance.Sub(settlement.Amount)
		if err := f.pumpWalletRepo.UpdateBalance(txCtx, wallet.ID, newBalance); err != nil {
			return err
		}

		referenceID := settlement.ID
		entry := &models.WalletLedgerEntry{
			GroupUUID:     uuid.New(),
			EventType:     models.LedgerEventSettlement,
			Direction:     models.LedgerDirectionDebit,
			WalletType:    models.WalletTypePump,
			WalletID:      wallet.ID,
			Amount:        settlement.Amount,
			BalanceAfter:  newBalance,
			ReferenceID:   &referenceID,
			ReferenceType: models.ReferenceTypePumpSettlement,
		}
		if err := f.ledgerRepo.Save(txCtx, entry); err != nil {
			return err
		}

		settlement.Status = models.PumpSettlementStatusApproved
		if err := f.settlementRepo.Update(txCtx, settlement); err != nil {
			return err
		}

		result = dto.NewPumpSettlementDTO(settlement)
		return nil
	})
	if err != nil {
		return nil, err
	}

	payoutsProcessedTotal.WithLabelValues(req.Action).Inc()
	log.Printf("settlement %d %sd", req.SettlementID, req.Action)
	if f.notifier != nil {
		f.notifier.PayoutProcessed(ctx, &models.PumpSettlement{
			ID:          result.ID,
			PumpOwnerID: result.PumpOwnerID,
			Amount:      result.Amount,
			Status:      models.PumpSettlementStatus(result.Status),
		})
	}
	return &result, nil
}

// ListSettlements pages through an owner's payout requests, newest first
func (f *PayoutFlowImpl) ListSettlements(ctx context.Context, req *dto.ListSettlementsRequest) (*dto.SettlementPageDTO, error) {
	owner, err := f.pumpOwnerRepo.ByID(ctx, req.PumpOwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrPumpOwnerNotFound
	}

	limit, offset, err := normalizePage(req.Limit, req.Offset, f.escrowCfg)
	if err != nil {
		return nil, err
	}

	filter := models.PumpSettlementFilter{PumpOwnerID: &req.PumpOwnerID}
	if req.Status != nil {
		status := models.PumpSettlementStatus(*req.Status)
		filter.Status = &status
	}

	total, err := f.settlementRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	settlements, err := f.settlementRepo.ByFilter(ctx, filter, "requested_at DESC", limit, offset)
	if err != nil {
		return nil, err
	}

	page := &dto.SettlementPageDTO{
		Settlements: make([]dto.PumpSettlementDTO, 0, len(settlements)),
		Pagination:  dto.PaginationInfo{Total: total, Limit: limit, Offset: offset},
	}
	for _, settlement := range settlements {
		page.Settlements = append(page.Settlements, dto.NewPumpSettlementDTO(settlement))
	}
	return page, nil
}

// GetSettlementSummary reports an owner's available balance, the total
// still awaiting processing, and today's settled sales across their pumps
func (f *PayoutFlowImpl) GetSettlementSummary(ctx context.Context, ownerID uint) (*dto.SettlementSummaryDTO, error) {
	owner, err := f.pumpOwnerRepo.ByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrPumpOwnerNotFound
	}

	wallet, err := f.pumpWalletRepo.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	pending, err := f.settlementRepo.SumPendingForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	todaySales, err := f.transactionRepo.SumSettledForOwnerOn(ctx, ownerID, utils.UTCNow())
	if err != nil {
		return nil, err
	}

	return &dto.SettlementSummaryDTO{
		AvailableBalance:   wallet.Balance,
		PendingSettlements: pending,
		TodaySales:         todaySales,
		Currency:           f.escrowCfg.Currency,
	}, nil
}
