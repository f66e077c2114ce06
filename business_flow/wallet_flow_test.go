package businessflow_test

import (
	"context"
	"testing"

	"github.com/Ankushsph/fuel/app/dto"
	businessflow "github.com/Ankushsph/fuel/business_flow"
	"github.com/Ankushsph/fuel/models"
	"github.com/Ankushsph/fuel/repository"
	testingutil "github.com/Ankushsph/fuel/testing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalletFlow(testDB *testingutil.TestDB) businessflow.WalletFlow {
	return businessflow.NewWalletFlow(
		repository.NewDriverRepository(testDB.DB),
		repository.NewPumpOwnerRepository(testDB.DB),
		repository.NewDriverWalletRepository(testDB.DB),
		repository.NewPumpWalletRepository(testDB.DB),
		repository.NewWalletLedgerRepository(testDB.DB),
		testDB.DB,
		testEscrowConfig(),
	)
}

func TestWalletTopUp(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := context.Background()
		flow := newWalletFlow(testDB)
		ledgerRepo := repository.NewWalletLedgerRepository(testDB.DB)

		driver := &models.Driver{
			FullName: "Ravi Kumar",
			Email:    "ravi.kumar@example.com",
			Phone:    "+919876543210",
		}
		require.NoError(t, testDB.DB.Create(driver).Error)

		t.Run("FirstTopUpCreatesWallet", func(t *testing.T) {
			resp, err := flow.TopUpWallet(ctx, &dto.TopUpWalletRequest{
				DriverID:         driver.ID,
				Amount:           decimal.NewFromInt(2000),
				PaymentReference: "pg_ref_001",
			})
			require.NoError(t, err)
			assert.NotZero(t, resp.WalletID)
			assert.True(t, resp.NewBalance.Equal(decimal.NewFromInt(2000)))
			assert.NotEmpty(t, resp.GroupUUID)

			entries, err := ledgerRepo.ByWallet(ctx, models.WalletTypeDriver, resp.WalletID, 10, 0)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, models.LedgerEventWalletTopup, entries[0].EventType)
			assert.Equal(t, models.LedgerDirectionCredit, entries[0].Direction)
			assert.True(t, entries[0].BalanceAfter.Equal(decimal.NewFromInt(2000)))
		})

		t.Run("RepeatTopUpAccumulates", func(t *testing.T) {
			resp, err := flow.TopUpWallet(ctx, &dto.TopUpWalletRequest{
				DriverID: driver.ID,
				Amount:   decimal.RequireFromString("500.50"),
			})
			require.NoError(t, err)
			assert.True(t, resp.NewBalance.Equal(decimal.RequireFromString("2500.50")))
		})

		t.Run("NonPositiveAmountIsRefused", func(t *testing.T) {
			_, err := flow.TopUpWallet(ctx, &dto.TopUpWalletRequest{
				DriverID: driver.ID,
				Amount:   decimal.Zero,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsAmountTooLow(err))
		})

		t.Run("UnknownDriverIsRefused", func(t *testing.T) {
			_, err := flow.TopUpWallet(ctx, &dto.TopUpWalletRequest{
				DriverID: 999999,
				Amount:   decimal.NewFromInt(100),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsDriverNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWalletBalanceAndStatement(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()
		flow := newWalletFlow(testDB)

		owner, pumpWallet, err := fixtures.CreateTestPumpOwner(decimal.NewFromInt(750))
		require.NoError(t, err)
		driver, _, driverWallet, err := fixtures.CreateTestDriver("TN10XY3333", decimal.NewFromInt(1200))
		require.NoError(t, err)

		t.Run("DriverBalance", func(t *testing.T) {
			balance, err := flow.GetDriverWalletBalance(ctx, driver.ID)
			require.NoError(t, err)
			assert.Equal(t, driverWallet.ID, balance.WalletID)
			assert.Equal(t, string(models.WalletTypeDriver), balance.WalletType)
			assert.True(t, balance.Balance.Equal(decimal.NewFromInt(1200)))
			assert.Equal(t, "INR", balance.Currency)
		})

		t.Run("PumpBalance", func(t *testing.T) {
			balance, err := flow.GetPumpWalletBalance(ctx, owner.ID)
			require.NoError(t, err)
			assert.Equal(t, pumpWallet.ID, balance.WalletID)
			assert.True(t, balance.Balance.Equal(decimal.NewFromInt(750)))
		})

		t.Run("StatementPagesNewestFirst", func(t *testing.T) {
			for i := 1; i <= 3; i++ {
				_, err := flow.TopUpWallet(ctx, &dto.TopUpWalletRequest{
					DriverID: driver.ID,
					Amount:   decimal.NewFromInt(int64(i * 100)),
				})
				require.NoError(t, err)
			}

			statement, err := flow.GetWalletStatement(ctx, &dto.WalletStatementRequest{
				WalletType: string(models.WalletTypeDriver),
				WalletID:   driverWallet.ID,
				Limit:      2,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(3), statement.Pagination.Total)
			require.Len(t, statement.Entries, 2)
			// The newest entry carries the running balance after the last credit
			assert.True(t, statement.Entries[0].Amount.Equal(decimal.NewFromInt(300)))
			assert.True(t, statement.Entries[0].BalanceAfter.Equal(decimal.NewFromInt(1800)))
		})

		t.Run("StatementForUnknownWallet", func(t *testing.T) {
			_, err := flow.GetWalletStatement(ctx, &dto.WalletStatementRequest{
				WalletType: string(models.WalletTypePump),
				WalletID:   999999,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsPumpWalletNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
