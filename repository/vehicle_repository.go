package repository

import (
	"context"
	"errors"

	"github.com/Ankushsph/fuel/models"
	"gorm.io/gorm"
)

// VehicleRepositoryImpl implements VehicleRepository
type VehicleRepositoryImpl struct {
	*BaseRepository[models.Vehicle, struct{}]
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &VehicleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Vehicle, struct{}](db),
	}
}

// ByPlate finds a vehicle by its normalized licence plate. Lookups are
// exact matches against the normalized form; fuzzy matching for ANPR noise
// stays behind the DriverResolver interface.
func (r *VehicleRepositoryImpl) ByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	db := r.getDB(ctx)
	var vehicle models.Vehicle
	err := db.Where("plate = ?", models.NormalizePlate(plate)).Last(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

// ListByDriver returns all vehicles registered to one driver
func (r *VehicleRepositoryImpl) ListByDriver(ctx context.Context, driverID uint) ([]*models.Vehicle, error) {
	db := r.getDB(ctx)
	var vehicles []*models.Vehicle
	err := db.Where("driver_id = ?", driverID).Order("id ASC").Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// DriverRepositoryImpl implements DriverRepository
type DriverRepositoryImpl struct {
	*BaseRepository[models.Driver, struct{}]
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &DriverRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Driver, struct{}](db),
	}
}

// ByID finds a driver by ID
func (r *DriverRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Driver, error) {
	db := r.getDB(ctx)
	var driver models.Driver
	err := db.Last(&driver, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &driver, nil
}
