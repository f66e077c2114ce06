package repository

import (
	"context"

	"github.com/Ankushsph/fuel/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalletLedgerRepositoryImpl implements WalletLedgerRepository.
//
// This repository is insert-only. There is intentionally no Update or
// Delete: ledger entries are the immutable audit trail and the write path
// never exposes a way to change one after the fact.
type WalletLedgerRepositoryImpl struct {
	*BaseRepository[models.WalletLedgerEntry, models.WalletLedgerEntryFilter]
}

// NewWalletLedgerRepository creates a new wallet ledger repository
func NewWalletLedgerRepository(db *gorm.DB) WalletLedgerRepository {
	return &WalletLedgerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.WalletLedgerEntry, models.WalletLedgerEntryFilter](db),
	}
}

// ByReference returns the entries caused by one business record, ordered by
// creation. Receipts are assembled from this query.
func (r *WalletLedgerRepositoryImpl) ByReference(ctx context.Context, referenceType string, referenceID uint) ([]*models.WalletLedgerEntry, error) {
	db := r.getDB(ctx)
	var entries []*models.WalletLedgerEntry
	err := db.Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ByGroupUUID returns all entries produced by one atomic business event
func (r *WalletLedgerRepositoryImpl) ByGroupUUID(ctx context.Context, groupUUID uuid.UUID) ([]*models.WalletLedgerEntry, error) {
	db := r.getDB(ctx)
	var entries []*models.WalletLedgerEntry
	err := db.Where("group_uuid = ?", groupUUID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ByWallet returns a wallet's statement page, newest first
func (r *WalletLedgerRepositoryImpl) ByWallet(ctx context.Context, walletType models.WalletType, walletID uint, limit, offset int) ([]*models.WalletLedgerEntry, error) {
	db := r.getDB(ctx)
	var entries []*models.WalletLedgerEntry
	query := db.Where("wallet_type = ? AND wallet_id = ?", walletType, walletID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByWallet returns the number of ledger entries for a wallet
func (r *WalletLedgerRepositoryImpl) CountByWallet(ctx context.Context, walletType models.WalletType, walletID uint) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.WalletLedgerEntry{}).
		Where("wallet_type = ? AND wallet_id = ?", walletType, walletID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
