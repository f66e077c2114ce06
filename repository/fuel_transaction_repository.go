package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Ankushsph/fuel/models"
	"github.com/Ankushsph/fuel/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FuelTransactionRepositoryImpl implements FuelTransactionRepository
type FuelTransactionRepositoryImpl struct {
	*BaseRepository[models.FuelTransaction, models.FuelTransactionFilter]
}

// NewFuelTransactionRepository creates a new fuel transaction repository
func NewFuelTransactionRepository(db *gorm.DB) FuelTransactionRepository {
	return &FuelTransactionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FuelTransaction, models.FuelTransactionFilter](db),
	}
}

// ByIDForUpdate loads a transaction under SELECT ... FOR UPDATE so that
// concurrent settles of the same transaction serialize on the row. Must run
// inside a WithTransaction scope.
func (r *FuelTransactionRepositoryImpl) ByIDForUpdate(ctx context.Context, id uint) (*models.FuelTransaction, error) {
	db := r.getDB(ctx)
	var transaction models.FuelTransaction
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&transaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

// Update persists the mutable fields of an existing transaction. Amount,
// references, and creation metadata are written once at creation and are
// not part of the update set.
func (r *FuelTransactionRepositoryImpl) Update(ctx context.Context, transaction *models.FuelTransaction) error {
	db := r.getDB(ctx)
	return db.Model(&models.FuelTransaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]any{
			"status":      transaction.Status,
			"verifier_id": transaction.VerifierID,
			"verified_at": transaction.VerifiedAt,
			"settled_at":  transaction.SettledAt,
			"extra_data":  transaction.ExtraData,
			"updated_at":  utils.UTCNow(),
		}).Error
}

// UpdateStatusIf performs a conditional transition and reports whether a
// row actually changed. A false return means the transaction was not in the
// expected state (lost race or repeated call).
func (r *FuelTransactionRepositoryImpl) UpdateStatusIf(ctx context.Context, id uint, from, to models.FuelTransactionStatus, updates map[string]any) (bool, error) {
	db := r.getDB(ctx)

	set := map[string]any{
		"status":     to,
		"updated_at": utils.UTCNow(),
	}
	for k, v := range updates {
		set[k] = v
	}

	result := db.Model(&models.FuelTransaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(set)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ByFilter retrieves transactions based on filter criteria
func (r *FuelTransactionRepositoryImpl) ByFilter(ctx context.Context, filter models.FuelTransactionFilter, orderBy string, limit, offset int) ([]*models.FuelTransaction, error) {
	db := r.getDB(ctx)
	var transactions []*models.FuelTransaction

	query := r.applyFilter(db.Model(&models.FuelTransaction{}), filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// Count returns the number of transactions matching the filter
func (r *FuelTransactionRepositoryImpl) Count(ctx context.Context, filter models.FuelTransactionFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	err := r.applyFilter(db.Model(&models.FuelTransaction{}), filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListPendingForPump returns transactions awaiting verification for a pump,
// oldest first
func (r *FuelTransactionRepositoryImpl) ListPendingForPump(ctx context.Context, pumpID uint) ([]*models.FuelTransaction, error) {
	db := r.getDB(ctx)
	var transactions []*models.FuelTransaction
	err := db.Where("pump_id = ? AND status = ?", pumpID, models.FuelTransactionStatusPendingVerification).
		Order("created_at ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// ListSettledInWindow returns settled transactions created within [start, end]
func (r *FuelTransactionRepositoryImpl) ListSettledInWindow(ctx context.Context, pumpID uint, start, end time.Time) ([]*models.FuelTransaction, error) {
	db := r.getDB(ctx)
	var transactions []*models.FuelTransaction
	err := db.Where("pump_id = ? AND status = ? AND created_at >= ? AND created_at <= ?",
		pumpID, models.FuelTransactionStatusSettled, start, end).
		Order("created_at ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// SumSettledForOwnerOn sums the amounts of transactions settled on the given
// day across all pumps of one owner. Revenue figures count settled rows only.
func (r *FuelTransactionRepositoryImpl) SumSettledForOwnerOn(ctx context.Context, ownerID uint, day time.Time) (decimal.Decimal, error) {
	db := r.getDB(ctx)
	var total decimal.NullDecimal
	err := db.Model(&models.FuelTransaction{}).
		Select("SUM(fuel_transactions.amount)").
		Joins("JOIN pumps ON fuel_transactions.pump_id = pumps.id").
		Where("pumps.owner_id = ? AND fuel_transactions.status = ?", ownerID, models.FuelTransactionStatusSettled).
		Where("fuel_transactions.settled_at >= ? AND fuel_transactions.settled_at <= ?",
			utils.StartOfDay(day), utils.EndOfDay(day)).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// applyFilter applies the filter to the query
func (r *FuelTransactionRepositoryImpl) applyFilter(query *gorm.DB, filter models.FuelTransactionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.PumpID != nil {
		query = query.Where("pump_id = ?", *filter.PumpID)
	}
	if len(filter.VehicleNumbers) > 0 {
		query = query.Where("vehicle_number IN ?", filter.VehicleNumbers)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}
