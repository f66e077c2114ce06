package repository

import (
	"context"
	"errors"

	"github.com/Ankushsph/fuel/models"
	"github.com/Ankushsph/fuel/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DriverWalletRepositoryImpl implements DriverWalletRepository
type DriverWalletRepositoryImpl struct {
	*BaseRepository[models.DriverWallet, struct{}]
}

// NewDriverWalletRepository creates a new driver wallet repository
func NewDriverWalletRepository(db *gorm.DB) DriverWalletRepository {
	return &DriverWalletRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DriverWallet, struct{}](db),
	}
}

// ByID finds a driver wallet by ID
func (r *DriverWalletRepositoryImpl) ByID(ctx context.Context, id uint) (*models.DriverWallet, error) {
	db := r.getDB(ctx)
	var wallet models.DriverWallet
	err := db.Last(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// ByDriverID finds a driver wallet by its owning driver
func (r *DriverWalletRepositoryImpl) ByDriverID(ctx context.Context, driverID uint) (*models.DriverWallet, error) {
	db := r.getDB(ctx)
	var wallet models.DriverWallet
	err := db.Where("driver_id = ?", driverID).Last(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// GetOrCreate returns the driver's wallet, creating a zero-balance row on
// first touch. The insert uses ON CONFLICT DO NOTHING on driver_id so two
// concurrent first-touches converge on a single row.
func (r *DriverWalletRepositoryImpl) GetOrCreate(ctx context.Context, driverID uint) (*models.DriverWallet, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	wallet := &models.DriverWallet{
		DriverID: driverID,
		Balance:  decimal.Zero,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "driver_id"}},
		DoNothing: true,
	}).Create(wallet).Error
	if err != nil {
		return nil, err
	}

	// Re-read: on conflict the insert returns no row
	var existing models.DriverWallet
	err = db.Where("driver_id = ?", driverID).Last(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// LockByID loads a wallet under SELECT ... FOR UPDATE. Must run inside a
// WithTransaction scope; the lock holds until commit or rollback.
func (r *DriverWalletRepositoryImpl) LockByID(ctx context.Context, id uint) (*models.DriverWallet, error) {
	db := r.getDB(ctx)
	var wallet models.DriverWallet
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// UpdateBalance writes a new balance. Callers must hold the row lock and
// append a matching ledger entry in the same transaction.
func (r *DriverWalletRepositoryImpl) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	db := r.getDB(ctx)
	return db.Model(&models.DriverWallet{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":    balance,
			"updated_at": utils.UTCNow(),
		}).Error
}

// PumpWalletRepositoryImpl implements PumpWalletRepository
type PumpWalletRepositoryImpl struct {
	*BaseRepository[models.PumpWallet, struct{}]
}

// NewPumpWalletRepository creates a new pump wallet repository
func NewPumpWalletRepository(db *gorm.DB) PumpWalletRepository {
	return &PumpWalletRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PumpWallet, struct{}](db),
	}
}

// ByID finds a pump wallet by ID
func (r *PumpWalletRepositoryImpl) ByID(ctx context.Context, id uint) (*models.PumpWallet, error) {
	db := r.getDB(ctx)
	var wallet models.PumpWallet
	err := db.Last(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// ByOwnerID finds a pump wallet by its owning pump owner
func (r *PumpWalletRepositoryImpl) ByOwnerID(ctx context.Context, ownerID uint) (*models.PumpWallet, error) {
	db := r.getDB(ctx)
	var wallet models.PumpWallet
	err := db.Where("owner_id = ?", ownerID).Last(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// GetOrCreate returns the owner's wallet, creating a zero-balance row on
// first touch with the same race-safe upsert as driver wallets.
func (r *PumpWalletRepositoryImpl) GetOrCreate(ctx context.Context, ownerID uint) (*models.PumpWallet, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	wallet := &models.PumpWallet{
		OwnerID: ownerID,
		Balance: decimal.Zero,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoNothing: true,
	}).Create(wallet).Error
	if err != nil {
		return nil, err
	}

	var existing models.PumpWallet
	err = db.Where("owner_id = ?", ownerID).Last(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// LockByID loads a wallet under SELECT ... FOR UPDATE
func (r *PumpWalletRepositoryImpl) LockByID(ctx context.Context, id uint) (*models.PumpWallet, error) {
	db := r.getDB(ctx)
	var wallet models.PumpWallet
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// UpdateBalance writes a new balance under the same discipline as
// DriverWalletRepository.UpdateBalance
func (r *PumpWalletRepositoryImpl) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	db := r.getDB(ctx)
	return db.Model(&models.PumpWallet{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":    balance,
			"updated_at": utils.UTCNow(),
		}).Error
}
