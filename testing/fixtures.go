package testing

import (
	"fmt"
	"math/rand"

	"github.com/Ankushsph/fuel/models"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestPumpOwner creates a pump owner with a funded wallet
func (tf *TestFixtures) CreateTestPumpOwner(balance decimal.Decimal) (*models.PumpOwner, *models.PumpWallet, error) {
	suffix := rand.Intn(1000000)

	owner := &models.PumpOwner{
		BusinessName: fmt.Sprintf("Highway Fuels %d", suffix),
		Email:        fmt.Sprintf("owner.%d@example.com", suffix),
		Phone:        fmt.Sprintf("+91987%07d", rand.Intn(10000000)),
	}
	if err := tf.DB.DB.Create(owner).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create pump owner: %w", err)
	}

	wallet := &models.PumpWallet{
		OwnerID: owner.ID,
		Balance: balance,
	}
	if err := tf.DB.DB.Create(wallet).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create pump wallet: %w", err)
	}

	return owner, wallet, nil
}

// CreateTestPump creates a pump for the given owner
func (tf *TestFixtures) CreateTestPump(ownerID uint) (*models.Pump, error) {
	pump := &models.Pump{
		OwnerID:   ownerID,
		Name:      fmt.Sprintf("Pump %d", rand.Intn(1000000)),
		Location:  "NH48, Gurugram",
		FuelTypes: "petrol,diesel",
	}
	if err := tf.DB.DB.Create(pump).Error; err != nil {
		return nil, fmt.Errorf("failed to create pump: %w", err)
	}
	return pump, nil
}

// CreateTestDriver creates a driver with a registered vehicle and a funded
// wallet. The returned vehicle's plate is already normalized.
func (tf *TestFixtures) CreateTestDriver(plate string, balance decimal.Decimal) (*models.Driver, *models.Vehicle, *models.DriverWallet, error) {
	suffix := rand.Intn(1000000)

	driver := &models.Driver{
		FullName: fmt.Sprintf("Driver %d", suffix),
		Email:    fmt.Sprintf("driver.%d@example.com", suffix),
		Phone:    fmt.Sprintf("+91876%07d", rand.Intn(10000000)),
	}
	if err := tf.DB.DB.Create(driver).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create driver: %w", err)
	}

	vehicle := &models.Vehicle{
		DriverID: driver.ID,
		Plate:    plate,
		Model:    "Tata Ace",
	}
	if err := tf.DB.DB.Create(vehicle).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	wallet := &models.DriverWallet{
		DriverID: driver.ID,
		Balance:  balance,
	}
	if err := tf.DB.DB.Create(wallet).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create driver wallet: %w", err)
	}

	return driver, vehicle, wallet, nil
}

// CreateTestTransaction creates a fuel transaction in the given status
func (tf *TestFixtures) CreateTestTransaction(pumpID uint, plate string, quantity, price float64, status models.FuelTransactionStatus) (*models.FuelTransaction, error) {
	transaction := &models.FuelTransaction{
		PumpID:            pumpID,
		VehicleNumber:     plate,
		FuelType:          "diesel",
		QuantityLitres:    quantity,
		UnitPrice:         price,
		Amount:            models.ComputeAmount(quantity, price),
		Status:            status,
		VerificationLevel: models.VerificationLevelManual,
		AttendantID:       1,
		ExtraData:         map[string]any{},
	}
	if err := tf.DB.DB.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to create fuel transaction: %w", err)
	}
	return transaction, nil
}
