package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/Ankushsph/fuel/app/dto"
	"github.com/Ankushsph/fuel/config"
	"github.com/Ankushsph/fuel/models"
	"github.com/Ankushsph/fuel/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalletFlow handles wallet credits and read views. Every balance change
// commits together with a matching ledger entry.
type WalletFlow interface {
	TopUpWallet(ctx context.Context, req *dto.TopUpWalletRequest) (*dto.TopUpWalletResponse, error)
	GetDriverWalletBalance(ctx context.Context, driverID uint) (*dto.WalletBalanceDTO, error)
	GetPumpWalletBalance(ctx context.Context, ownerID uint) (*dto.WalletBalanceDTO, error)
	GetWalletStatement(ctx context.Context, req *dto.WalletStatementRequest) (*dto.WalletStatementDTO, error)
}

// WalletFlowImpl implements the wallet business flow
type WalletFlowImpl struct {
	driverRepo       repository.DriverRepository
	pumpOwnerRepo    repository.PumpOwnerRepository
	driverWalletRepo repository.DriverWalletRepository
	pumpWalletRepo   repository.PumpWalletRepository
	ledgerRepo       repository.WalletLedgerRepository
	db               *gorm.DB
	escrowCfg        config.EscrowConfig
}

// NewWalletFlow creates a new wallet flow instance
func NewWalletFlow(
	driverRepo repository.DriverRepository,
	pumpOwnerRepo repository.PumpOwnerRepository,
	driverWalletRepo repository.DriverWalletRepository,
	pumpWalletRepo repository.PumpWalletRepository,
	ledgerRepo repository.WalletLedgerRepository,
	db *gorm.DB,
	escrowCfg config.EscrowConfig,
) WalletFlow {
	return &WalletFlowImpl{
		driverRepo:       driverRepo,
		pumpOwnerRepo:    pumpOwnerRepo,
		driverWalletRepo: driverWalletRepo,
		pumpWalletRepo:   pumpWalletRepo,
		ledgerRepo:       ledgerRepo,
		db:               db,
		escrowCfg:        escrowCfg,
	}
}

// TopUpWallet credits a driver wallet after an external payment
// confirmation. The wallet is created on first top-up; the credit and its
// ledger entry commit atomically under a row lock.
func (f *WalletFlowImpl) TopUpWallet(ctx context.Context, req *dto.TopUpWalletRequest) (*dto.TopUpWalletResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrAmountTooLow
	}

	driver, err := f.driverRepo.ByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, ErrDriverNotFound
	}

	var response *dto.TopUpWalletResponse

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		wallet, err := f.driverWalletRepo.GetOrCreate(txCtx, req.DriverID)
		if err != nil {
			return err
		}

		wallet, err = f.driverWalletRepo.LockByID(txCtx, wallet.ID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return ErrDriverWalletNotFound
		}

		newBalance := wallet.Balance.Add(req.Amount)
		if err := f.driverWalletRepo.UpdateBalance(txCtx, wallet.ID, newBalance); err != nil {
			return err
		}

		group := uuid.New()
		entry := &models.WalletLedgerEntry{
			GroupUUID:     group,
			EventType:     models.LedgerEventWalletTopup,
			Direction:     models.LedgerDirectionCredit,
			WalletType:    models.WalletTypeDriver,
			WalletID:      wallet.ID,
			Amount:        req.Amount,
			BalanceAfter:  newBalance,
			ReferenceType: models.ReferenceTypeTopup,
		}
		if err := f.ledgerRepo.Save(txCtx, entry); err != nil {
			return err
		}

		response = &dto.TopUpWalletResponse{
			WalletID:   wallet.ID,
			NewBalance: newBalance,
			GroupUUID:  group.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	walletTopupsTotal.Inc()
	log.Printf("wallet %d topped up by %s (ref %q)", response.WalletID, req.Amount.StringFixed(2), req.PaymentReference)
	return response, nil
}

// GetDriverWalletBalance returns the driver's current balance, creating
// the wallet lazily on first read
func (f *WalletFlowImpl) GetDriverWalletBalance(ctx context.Context, driverID uint) (*dto.WalletBalanceDTO, error) {
	driver, err := f.driverRepo.ByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, ErrDriverNotFound
	}

	wallet, err := f.driverWalletRepo.GetOrCreate(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return &dto.WalletBalanceDTO{
		WalletID:   wallet.ID,
		WalletType: string(models.WalletTypeDriver),
		Balance:    wallet.Balance,
		Currency:   f.escrowCfg.Currency,
	}, nil
}

// GetPumpWalletBalance returns the pump owner's current balance, creating
// the wallet lazily on first read
func (f *WalletFlowImpl) GetPumpWalletBalance(ctx context.Context, ownerID uint) (*dto.WalletBalanceDTO, error) {
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

	return &dto.WalletBalanceDTO{
		WalletID:   wallet.ID,
		WalletType: string(models.WalletTypePump),
		Balance:    wallet.Balance,
		Currency:   f.escrowCfg.Currency,
	}, nil
}

// GetWalletStatement pages through a wallet's ledger entries, newest first
func (f *WalletFlowImpl) GetWalletStatement(ctx context.Context, req *dto.WalletStatementRequest) (*dto.WalletStatementDTO, error) {
	limit, offset, err := normalizePage(req.Limit, req.Offset, f.escrowCfg)
	if err != nil {
		return nil, err
	}

	walletType := models.WalletType(req.WalletType)
	switch walletType {
	case models.WalletTypeDriver:
		wallet, err := f.driverWalletRepo.ByID(ctx, req.WalletID)
		if err != nil {
			return nil, err
		}
		if wallet == nil {
			return nil, ErrDriverWalletNotFound
		}
	case models.WalletTypePump:
		wallet, err := f.pumpWalletRepo.ByID(ctx, req.WalletID)
		if err != nil {
			return nil, err
		}
		if wallet == nil {
			return nil, ErrPumpWalletNotFound
		}
	default:
		return nil, ErrInvalidState
	}

	total, err := f.ledgerRepo.CountByWallet(ctx, walletType, req.WalletID)
	if err != nil {
		return nil, err
	}

	entries, err := f.ledgerRepo.ByWallet(ctx, walletType, req.WalletID, limit, offset)
	if err != nil {
		return nil, err
	}

	statement := &dto.WalletStatementDTO{
		WalletID:   req.WalletID,
		WalletType: req.WalletType,
		Entries:    make([]dto.StatementEntryDTO, 0, len(entries)),
		Pagination: dto.PaginationInfo{Total: total, Limit: limit, Offset: offset},
	}
	for _, entry := range entries {
		statement.Entries = append(statement.Entries, dto.StatementEntryDTO{
			ID:            entry.ID,
			GroupUUID:     entry.GroupUUID.String(),
			EventType:     string(entry.EventType),
			Direction:     string(entry.Direction),
			Amount:        entry.Amount,
			BalanceAfter:  entry.BalanceAfter,
			ReferenceID:   entry.ReferenceID,
			ReferenceType: entry.ReferenceType,
			CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return statement, nil
}
