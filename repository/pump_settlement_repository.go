package repository

import (
	"context"
	"errors"

	"github.com/Ankushsph/fuel/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PumpSettlementRepositoryImpl implements PumpSettlementRepository
type PumpSettlementRepositoryImpl struct {
	*BaseRepository[models.PumpSettlement, models.PumpSettlementFilter]
}

// NewPumpSettlementRepository creates a new pump settlement repository
func NewPumpSettlementRepository(db *gorm.DB) PumpSettlementRepository {
	return &PumpSettlementRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PumpSettlement, models.PumpSettlementFilter](db),
	}
}

// ByIDForUpdate loads a settlement under SELECT ... FOR UPDATE so that two
// admins processing the same request serialize on the row
func (r *PumpSettlementRepositoryImpl) ByIDForUpdate(ctx context.Context, id uint) (*models.PumpSettlement, error) {
	db := r.getDB(ctx)
	var settlement models.PumpSettlement
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&settlement, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settlement, nil
}

// Update persists the mutable processing fields of a settlement
func (r *PumpSettlementRepositoryImpl) Update(ctx context.Context, settlement *models.PumpSettlement) error {
	db := r.getDB(ctx)
	return db.Model(&models.PumpSettlement{}).
		Where("id = ?", settlement.ID).
		Updates(map[string]any{
			"status":         settlement.Status,
			"bank_reference": settlement.BankReference,
			"notes":          settlement.Notes,
			"processed_at":   settlement.ProcessedAt,
		}).Error
}

// ByFilter retrieves settlements based on filter criteria
func (r *PumpSettlementRepositoryImpl) ByFilter(ctx context.Context, filter models.PumpSettlementFilter, orderBy string, limit, offset int) ([]*models.PumpSettlement, error) {
	db := r.getDB(ctx)
	var settlements []*models.PumpSettlement

	query := r.applyFilter(db.Model(&models.PumpSettlement{}), filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&settlements).Error
	if err != nil {
		return nil, err
	}
	return settlements, nil
}

// Count returns the number of settlements matching the filter
func (r *PumpSettlementRepositoryImpl) Count(ctx context.Context, filter models.PumpSettlementFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := r.applyFilter(db.Model(&models.PumpSettlement{}), filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SumPendingForOwner sums the amounts of unprocessed payout requests
func (r *PumpSettlementRepositoryImpl) SumPendingForOwner(ctx context.Context, ownerID uint) (decimal.Decimal, error) {
	db := r.getDB(ctx)
	var total decimal.NullDecimal
	err := db.Model(&models.PumpSettlement{}).
		Select("SUM(amount)").
		Where("pump_owner_id = ? AND status = ?", ownerID, models.PumpSettlementStatusPending).
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
func (r *PumpSettlementRepositoryImpl) applyFilter(query *gorm.DB, filter models.PumpSettlementFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PumpOwnerID != nil {
		query = query.Where("pump_owner_id = ?", *filter.PumpOwnerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}
