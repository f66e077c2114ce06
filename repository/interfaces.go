// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/Ankushsph/fuel/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// PumpRepository defines operations for pumps
type PumpRepository interface {
	ByID(ctx context.Context, id uint) (*models.Pump, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*models.Pump, error)
	Save(ctx context.Context, pump *models.Pump) error
}

// VehicleRepository defines operations for the vehicle registry
type VehicleRepository interface {
	ByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	ListByDriver(ctx context.Context, driverID uint) ([]*models.Vehicle, error)
	Save(ctx context.Context, vehicle *models.Vehicle) error
}

// DriverRepository defines operations for drivers
type DriverRepository interface {
	ByID(ctx context.Context, id uint) (*models.Driver, error)
	Save(ctx context.Context, driver *models.Driver) error
}

// PumpOwnerRepository defines operations for pump owners
type PumpOwnerRepository interface {
	ByID(ctx context.Context, id uint) (*models.PumpOwner, error)
	Save(ctx context.Context, owner *models.PumpOwner) error
}

// DriverWalletRepository defines operations for driver wallets.
//
// LockByID takes a row-level lock (SELECT ... FOR UPDATE) and must only be
// called inside a WithTransaction scope; UpdateBalance is restricted to the
// flows that also append a ledger entry in the same transaction.
type DriverWalletRepository interface {
	ByID(ctx context.Context, id uint) (*models.DriverWallet, error)
	ByDriverID(ctx context.Context, driverID uint) (*models.DriverWallet, error)
	GetOrCreate(ctx context.Context, driverID uint) (*models.DriverWallet, error)
	LockByID(ctx context.Context, id uint) (*models.DriverWallet, error)
	UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error
}

// PumpWalletRepository defines operations for pump-owner wallets.
// The same locking and write discipline as DriverWalletRepository applies.
type PumpWalletRepository interface {
	ByID(ctx context.Context, id uint) (*models.PumpWallet, error)
	ByOwnerID(ctx context.Context, ownerID uint) (*models.PumpWallet, error)
	GetOrCreate(ctx context.Context, ownerID uint) (*models.PumpWallet, error)
	LockByID(ctx context.Context, id uint) (*models.PumpWallet, error)
	UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error
}

// FuelTransactionRepository defines operations for fuel transactions
type FuelTransactionRepository interface {
	Repository[models.FuelTransaction, models.FuelTransactionFilter]
	ByIDForUpdate(ctx context.Context, id uint) (*models.FuelTransaction, error)
	Update(ctx context.Context, transaction *models.FuelTransaction) error
	// UpdateStatusIf performs a conditional state transition ("set status=to
	// where id=? and status=from") and reports whether a row changed. It is
	// the guard against double-verify and double-settle races.
	UpdateStatusIf(ctx context.Context, id uint, from, to models.FuelTransactionStatus, updates map[string]any) (bool, error)
	ListPendingForPump(ctx context.Context, pumpID uint) ([]*models.FuelTransaction, error)
	ListSettledInWindow(ctx context.Context, pumpID uint, start, end time.Time) ([]*models.FuelTransaction, error)
	SumSettledForOwnerOn(ctx context.Context, ownerID uint, day time.Time) (decimal.Decimal, error)
}

// WalletLedgerRepository defines the insert-only ledger store. There are
// deliberately no update or delete operations.
type WalletLedgerRepository interface {
	Save(ctx context.Context, entry *models.WalletLedgerEntry) error
	SaveBatch(ctx context.Context, entries []*models.WalletLedgerEntry) error
	ByReference(ctx context.Context, referenceType string, referenceID uint) ([]*models.WalletLedgerEntry, error)
	ByGroupUUID(ctx context.Context, groupUUID uuid.UUID) ([]*models.WalletLedgerEntry, error)
	ByWallet(ctx context.Context, walletType models.WalletType, walletID uint, limit, offset int) ([]*models.WalletLedgerEntry, error)
	CountByWallet(ctx context.Context, walletType models.WalletType, walletID uint) (int64, error)
}

// PumpSettlementRepository defines operations for payout requests
type PumpSettlementRepository interface {
	Repository[models.PumpSettlement, models.PumpSettlementFilter]
	ByIDForUpdate(ctx context.Context, id uint) (*models.PumpSettlement, error)
	Update(ctx context.Context, settlement *models.PumpSettlement) error
	SumPendingForOwner(ctx context.Context, ownerID uint) (decimal.Decimal, error)
}
