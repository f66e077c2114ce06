package repository

import (
	"context"
	"errors"

	"github.com/Ankushsph/fuel/models"
	"gorm.io/gorm"
)

// PumpRepositoryImpl implements PumpRepository
type PumpRepositoryImpl struct {
	*BaseRepository[models.Pump, struct{}]
}

// NewPumpRepository creates a new pump repository
func NewPumpRepository(db *gorm.DB) PumpRepository {
	return &PumpRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Pump, struct{}](db),
	}
}

// ByID finds a pump by ID
func (r *PumpRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Pump, error) {
	db := r.getDB(ctx)
	var pump models.Pump
	err := db.Last(&pump, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pump, nil
}

// ListByOwner returns all pumps registered by one owner
func (r *PumpRepositoryImpl) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Pump, error) {
	db := r.getDB(ctx)
	var pumps []*models.Pump
	err := db.Where("owner_id = ?", ownerID).Order("id ASC").Find(&pumps).Error
	if err != nil {
		return nil, err
	}
	return pumps, nil
}

// PumpOwnerRepositoryImpl implements PumpOwnerRepository
type PumpOwnerRepositoryImpl struct {
	*BaseRepository[models.PumpOwner, struct{}]
}

// NewPumpOwnerRepository creates a new pump owner repository
func NewPumpOwnerRepository(db *gorm.DB) PumpOwnerRepository {
	return &PumpOwnerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PumpOwner, struct{}](db),
	}
}

// ByID finds a pump owner by ID
func (r *PumpOwnerRepositoryImpl) ByID(ctx context.Context, id uint) (*models.PumpOwner, error) {
	db := r.getDB(ctx)
	var owner models.PumpOwner
	err := db.Last(&owner, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &owner, nil
}
