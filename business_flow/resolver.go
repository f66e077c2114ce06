package businessflow

import (
	"context"

	"github.com/Ankushsph/fuel/repository"
)

// ResolvedDriver identifies the payer for a fuel sale. It carries the
// wallet ID only, never a balance: the balance is always re-read under a
// row lock inside the settlement transaction, so resolution results are
// safe to cache.
type ResolvedDriver struct {
	DriverID uint
	WalletID uint
}

// DriverResolver maps a vehicle number to the driver wallet that pays for
// its fuel. A nil result with a nil error means no driver could be
// resolved, which settlement records as a failed outcome rather than an
// error.
type DriverResolver interface {
	Resolve(ctx context.Context, vehicleNumber string) (*ResolvedDriver, error)
}

// VehicleRegistryResolver resolves drivers through the vehicle registry
// with an exact match on the normalized plate
type VehicleRegistryResolver struct {
	vehicleRepo      repository.VehicleRepository
	driverWalletRepo repository.DriverWalletRepository
}

// NewVehicleRegistryResolver creates a registry-backed driver resolver
func NewVehicleRegistryResolver(
	vehicleRepo repository.VehicleRepository,
	driverWalletRepo repository.DriverWalletRepository,
) DriverResolver {
	return &VehicleRegistryResolver{
		vehicleRepo:      vehicleRepo,
		driverWalletRepo: driverWalletRepo,
	}
}

// Resolve looks up the vehicle and its driver's wallet. An unknown plate
// and a driver without a wallet both resolve to nil.
func (r *VehicleRegistryResolver) Resolve(ctx context.Context, vehicleNumber string) (*ResolvedDriver, error) {
	vehicle, err := r.vehicleRepo.ByPlate(ctx, vehicleNumber)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, nil
	}

	wallet, err := r.driverWalletRepo.ByDriverID(ctx, vehicle.DriverID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, nil
	}

	return &ResolvedDriver{
		DriverID: vehicle.DriverID,
		WalletID: wallet.ID,
	}, nil
}
