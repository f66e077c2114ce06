package businessflow_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Ankushsph/fuel/app/dto"
	"github.com/Ankushsph/fuel/app/services"
	businessflow "github.com/Ankushsph/fuel/business_flow"
	"github.com/Ankushsph/fuel/config"
	"github.com/Ankushsph/fuel/models"
	"github.com/Ankushsph/fuel/repository"
	testingutil "github.com/Ankushsph/fuel/testing"
	"github.com/Ankushsph/fuel/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEscrowConfig mirrors the configuration defaults
func testEscrowConfig() config.EscrowConfig {
	return config.EscrowConfig{
		Currency:        utils.INRCurrency,
		DefaultPageSize: utils.DefaultPageSize,
		MaxPageSize:     utils.MaxPageSize,
	}
}

// newEscrowFlow wires an escrow flow against the test database
func newEscrowFlow(testDB *testingutil.TestDB) (businessflow.EscrowFlow, repository.DriverWalletRepository, repository.PumpWalletRepository, repository.WalletLedgerRepository, repository.FuelTransactionRepository) {
	return newEscrowFlowWithConfig(testDB, testEscrowConfig())
}

func newEscrowFlowWithConfig(testDB *testingutil.TestDB, escrowCfg config.EscrowConfig) (businessflow.EscrowFlow, repository.DriverWalletRepository, repository.PumpWalletRepository, repository.WalletLedgerRepository, repository.FuelTransactionRepository) {
	transactionRepo := repository.NewFuelTransactionRepository(testDB.DB)
	pumpRepo := repository.NewPumpRepository(testDB.DB)
	vehicleRepo := repository.NewVehicleRepository(testDB.DB)
	driverRepo := repository.NewDriverRepository(testDB.DB)
	driverWalletRepo := repository.NewDriverWalletRepository(testDB.DB)
	pumpWalletRepo := repository.NewPumpWalletRepository(testDB.DB)
	ledgerRepo := repository.NewWalletLedgerRepository(testDB.DB)

	resolver := businessflow.NewVehicleRegistryResolver(vehicleRepo, driverWalletRepo)
	notifier := services.NewLogNotifier(nil)

	flow := businessflow.NewEscrowFlow(
		transactionRepo, pumpRepo, vehicleRepo, driverRepo,
		driverWalletRepo, pumpWalletRepo, ledgerRepo,
		resolver, notifier, testDB.DB, escrowCfg,
	)
	return flow, driverWalletRepo, pumpWalletRepo, ledgerRepo, transactionRepo
}

func TestSettleTransaction(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		flow, driverWalletRepo, pumpWalletRepo, ledgerRepo, transactionRepo := newEscrowFlow(testDB)

		owner, pumpWallet, err := fixtures.CreateTestPumpOwner(decimal.NewFromInt(1000))
		require.NoError(t, err)
		pump, err := fixtures.CreateTestPump(owner.ID)
		require.NoError(t, err)
		_, _, driverWallet, err := fixtures.CreateTestDriver("MH12AB1234", decimal.NewFromInt(5000))
		require.NoError(t, err)

		t.Run("SuccessfulSettlement", func(t *testing.T) {
			created, err := flow.CreateTransaction(ctx, &dto.CreateFuelTransactionRequest{
				PumpID:         pump.ID,
				VehicleNumber:  "mh 12 ab 1234",
				FuelType:       "diesel",
				QuantityLitres: 10,
				UnitPrice:      102.5,
				AttendantID:    1,
			})
			require.NoError(t, err)
			assert.Equal(t, "MH12AB1234", created.VehicleNumber)
			assert.Equal(t, string(models.FuelTransactionStatusPendingVerification), created.Status)
			assert.True(t, created.Amount.Equal(decimal.NewFromInt(1025)))

			verified, err := flow.VerifyTransaction(ctx, &dto.VerifyTransactionRequest{
				TransactionID: created.ID,
				VerifierID:    7,
			})
			require.NoError(t, err)
			assert.Equal(t, string(models.FuelTransactionStatusVerified), verified.Status)
			require.NotNil(t, verified.VerifiedAt)

			result, err := flow.SettleTransaction(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, dto.SettlementOutcomeSettled, result.Outcome)
			require.NotNil(t, result.GroupUUID)
			require.NotNil(t, result.Transaction.SettledAt)

			// Both balances moved by exactly the amount
			dw, err := driverWalletRepo.ByID(ctx, driverWallet.ID)
			require.NoError(t, err)
			assert.True(t, dw.Balance.Equal(decimal.NewFromInt(3975)), "driver balance is %s", dw.Balance)

			pw, err := pumpWalletRepo.ByID(ctx, pumpWallet.ID)
			require.NoError(t, err)
			assert.True(t, pw.Balance.Equal(decimal.NewFromInt(2025)), "pump balance is %s", pw.Balance)

			// Paired ledger entries share the group UUID and conserve the amount
			entries, err := ledgerRepo.ByReference(ctx, models.ReferenceTypeFuelTransaction, created.ID)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, entries[0].GroupUUID, entries[1].GroupUUID)
			assert.Equal(t, *result.GroupUUID, entries[0].GroupUUID.String())

			var debit, credit *models.WalletLedgerEntry
			for _, entry := range entries {
				switch entry.Direction {
				case models.LedgerDirectionDebit:
					debit = entry
				case models.LedgerDirectionCredit:
					credit = entry
				}
			}
			require.NotNil(t, debit)
			require.NotNil(t, credit)
			assert.True(t, debit.Amount.Equal(credit.Amount))
			assert.Equal(t, models.WalletTypeDriver, debit.WalletType)
			assert.Equal(t, models.WalletTypePump, credit.WalletType)
			assert.True(t, debit.BalanceAfter.Equal(dw.Balance))
			assert.True(t, credit.BalanceAfter.Equal(pw.Balance))

			// Retry observes already processed and moves no money
			_, err = flow.SettleTransaction(ctx, created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsTransactionProcessed(err))

			dwAgain, err := driverWalletRepo.ByID(ctx, driverWallet.ID)
			require.NoError(t, err)
			assert.True(t, dwAgain.Balance.Equal(dw.Balance))
		})

		t.Run("SettleRequiresVerification", func(t *testing.T) {
			created, err := flow.CreateTransaction(ctx, &dto.CreateFuelTransactionRequest{
				PumpID:         pump.ID,
				VehicleNumber:  "MH12AB1234",
				FuelType:       "petrol",
				QuantityLitres: 5,
				UnitPrice:      100,
				AttendantID:    1,
			})
			require.NoError(t, err)

			_, err = flow.SettleTransaction(ctx, created.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsVerificationRequired(err))
		})

		t.Run("UnknownVehicleFailsAsOutcome", func(t *testing.T) {
			transaction, err := fixtures.CreateTestTransaction(pump.ID, "XX99ZZ0000", 10, 100, models.FuelTransactionStatusVerified)
			require.NoError(t, err)

			pumpBefore, err := pumpWalletRepo.ByID(ctx, pumpWallet.ID)
			require.NoError(t, err)

			result, err := flow.SettleTransaction(ctx, transaction.ID)
			require.NoError(t, err)
			assert.Equal(t, dto.SettlementOutcomeFailed, result.Outcome)
			assert.Contains(t, result.FailureReason, "not linked")
			assert.Equal(t, string(models.FuelTransactionStatusFailed), result.Transaction.Status)

			// No ledger entries, pump wallet unchanged
			entries, err := ledgerRepo.ByReference(ctx, models.ReferenceTypeFuelTransaction, transaction.ID)
			require.NoError(t, err)
			assert.Empty(t, entries)

			pumpAfter, err := pumpWalletRepo.ByID(ctx, pumpWallet.ID)
			require.NoError(t, err)
			assert.True(t, pumpAfter.Balance.Equal(pumpBefore.Balance))

			// Failure reason is persisted in extra data
			stored, err := transactionRepo.ByID(ctx, transaction.ID)
			require.NoError(t, err)
			assert.Equal(t, models.FuelTransactionStatusFailed, stored.Status)
			assert.Contains(t, stored.ExtraData[models.ExtraDataFailureReason], "not linked")
		})

		t.Run("InsufficientBalanceFailsAsOutcome", func(t *testing.T) {
			_, _, poorWallet, err := fixtures.CreateTestDriver("KA05CD9999", decimal.NewFromInt(50))
			require.NoError(t, err)

			transaction, err := fixtures.CreateTestTransaction(pump.ID, "KA05CD9999", 10, 100, models.FuelTransactionStatusVerified)
			require.NoError(t, err)

			result, err := flow.SettleTransaction(ctx, transaction.ID)
			require.NoError(t, err)
			assert.Equal(t, dto.SettlementOutcomeFailed, result.Outcome)
			assert.Contains(t, result.FailureReason, "Insufficient driver balance")

			// Driver balance untouched and never negative
			wallet, err := driverWalletRepo.ByID(ctx, poorWallet.ID)
			require.NoError(t, err)
			assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(50)))
		})

		t.Run("MissingPumpWalletRollsBack", func(t *testing.T) {
			orphanOwner := &models.PumpOwner{
				BusinessName: "No Wallet Fuels",
				Email:        "nowallet@example.com",
			}
			require.NoError(t, testDB.DB.Create(orphanOwner).Error)
			orphanPump := &models.Pump{OwnerID: orphanOwner.ID, Name: "Orphan Pump"}
			require.NoError(t, testDB.DB.Create(orphanPump).Error)

			transaction, err := fixtures.CreateTestTransaction(orphanPump.ID, "MH12AB1234", 1, 100, models.FuelTransactionStatusVerified)
			require.NoError(t, err)

			_, err = flow.SettleTransaction(ctx, transaction.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsPumpWalletNotFound(err))

			// Configuration faults roll back: the transaction stays verified
			stored, err := transactionRepo.ByID(ctx, transaction.ID)
			require.NoError(t, err)
			assert.Equal(t, models.FuelTransactionStatusVerified, stored.Status)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestVerifyAndReject(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		flow, _, _, _, transactionRepo := newEscrowFlow(testDB)

		owner, _, err := fixtures.CreateTestPumpOwner(decimal.Zero)
		require.NoError(t, err)
		pump, err := fixtures.CreateTestPump(owner.ID)
		require.NoError(t, err)

		t.Run("RejectIsTerminal", func(t *testing.T) {
			transaction, err := fixtures.CreateTestTransaction(pump.ID, "DL01EF5555", 8, 95, models.FuelTransactionStatusPendingVerification)
			require.NoError(t, err)

			rejected, err := flow.RejectTransaction(ctx, &dto.RejectTransactionRequest{
				TransactionID: transaction.ID,
				VerifierID:    3,
				Notes:         "quantity disputed",
			})
			require.NoError(t, err)
			assert.Equal(t, string(models.FuelTransactionStatusRejected), rejected.Status)

			// Verifying a terminal transaction reports already processed
			_, err = flow.VerifyTransaction(ctx, &dto.VerifyTransactionRequest{
				TransactionID: transaction.ID,
				VerifierID:    3,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsTransactionProcessed(err))

			// And settlement is refused too
			_, err = flow.SettleTransaction(ctx, transaction.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsTransactionProcessed(err))
		})

		t.Run("DoubleVerifyIsInvalid", func(t *testing.T) {
			transaction, err := fixtures.CreateTestTransaction(pump.ID, "DL01EF5555", 8, 95, models.FuelTransactionStatusPendingVerification)
			require.NoError(t, err)

			_, err = flow.VerifyTransaction(ctx, &dto.VerifyTransactionRequest{
				TransactionID: transaction.ID,
				VerifierID:    3,
				Notes:         "looks fine",
			})
			require.NoError(t, err)

			_, err = flow.VerifyTransaction(ctx, &dto.VerifyTransactionRequest{
				TransactionID: transaction.ID,
				VerifierID:    4,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidState(err))

			// First verifier's attribution is preserved
			stored, err := transactionRepo.ByID(ctx, transaction.ID)
			require.NoError(t, err)
			require.NotNil(t, stored.VerifierID)
			assert.Equal(t, uint(3), *stored.VerifierID)
			assert.Equal(t, "looks fine", stored.ExtraData[models.ExtraDataVerificationNotes])
		})

		t.Run("VerifyMissingTransaction", func(t *testing.T) {
			_, err := flow.VerifyTransaction(ctx, &dto.VerifyTransactionRequest{
				TransactionID: 999999,
				VerifierID:    3,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsTransactionNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestReceiptAndListings(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		flow, _, _, _, _ := newEscrowFlow(testDB)

		owner, _, err := fixtures.CreateTestPumpOwner(decimal.Zero)
		require.NoError(t, err)
		pump, err := fixtures.CreateTestPump(owner.ID)
		require.NoError(t, err)
		driver, _, _, err := fixtures.CreateTestDriver("GJ01GH7777", decimal.NewFromInt(10000))
		require.NoError(t, err)

		transaction, err := fixtures.CreateTestTransaction(pump.ID, "GJ01GH7777", 20, 98.75, models.FuelTransactionStatusVerified)
		require.NoError(t, err)

		result, err := flow.SettleTransaction(ctx, transaction.ID)
		require.NoError(t, err)
		require.Equal(t, dto.SettlementOutcomeSettled, result.Outcome)

		t.Run("ReceiptIsDerivedAndRepeatable", func(t *testing.T) {
			first, err := flow.GetReceipt(ctx, transaction.ID)
			require.NoError(t, err)
			second, err := flow.GetReceipt(ctx, transaction.ID)
			require.NoError(t, err)
			assert.Equal(t, first, second)

			assert.Equal(t, "INR", first.Currency)
			assert.Equal(t, pump.Name, first.Pump.Name)
			require.NotNil(t, first.Driver)
			assert.Equal(t, driver.FullName, first.Driver.FullName)
			require.NotNil(t, first.GroupUUID)
			assert.Equal(t, *result.GroupUUID, *first.GroupUUID)
			assert.Len(t, first.LedgerEntries, 2)
			assert.True(t, first.Amount.Equal(decimal.NewFromInt(1975)))
		})

		t.Run("PumpListingFiltersByStatus", func(t *testing.T) {
			_, err := fixtures.CreateTestTransaction(pump.ID, "GJ01GH7777", 5, 100, models.FuelTransactionStatusPendingVerification)
			require.NoError(t, err)

			settled := string(models.FuelTransactionStatusSettled)
			page, err := flow.ListPumpTransactions(ctx, &dto.ListPumpTransactionsRequest{
				PumpID: pump.ID,
				Status: &settled,
			})
			require.NoError(t, err)
			require.Len(t, page.Transactions, 1)
			assert.Equal(t, transaction.ID, page.Transactions[0].ID)
			assert.Equal(t, int64(1), page.Pagination.Total)
		})

		t.Run("DriverListingSpansVehicles", func(t *testing.T) {
			page, err := flow.ListDriverTransactions(ctx, &dto.ListDriverTransactionsRequest{
				DriverID: driver.ID,
			})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(page.Transactions), 2)
		})

		t.Run("PendingVerificationsOldestFirst", func(t *testing.T) {
			pending, err := flow.GetPendingVerifications(ctx, pump.ID)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.Equal(t, string(models.FuelTransactionStatusPendingVerification), pending[0].Status)
		})

		t.Run("DailySalesCountsSettledOnly", func(t *testing.T) {
			summary, err := flow.GetDailySales(ctx, pump.ID, transaction.CreatedAt)
			require.NoError(t, err)
			assert.Equal(t, 1, summary.TotalTransactions)
			assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(1975)))
			assert.Equal(t, 20.0, summary.TotalQuantity)
		})

		t.Run("PageBoundsComeFromConfig", func(t *testing.T) {
			cfg := testEscrowConfig()
			cfg.MaxPageSize = 10
			bounded, _, _, _, _ := newEscrowFlowWithConfig(testDB, cfg)

			_, err := bounded.ListPumpTransactions(ctx, &dto.ListPumpTransactionsRequest{
				PumpID: pump.ID,
				Limit:  50,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPageSize(err))

			// Within the configured bound the listing still works
			page, err := bounded.ListPumpTransactions(ctx, &dto.ListPumpTransactionsRequest{
				PumpID: pump.ID,
				Limit:  10,
			})
			require.NoError(t, err)
			assert.NotNil(t, page)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestConcurrentSettlement(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		flow, driverWalletRepo, pumpWalletRepo, ledgerRepo, _ := newEscrowFlow(testDB)

		owner, pumpWallet, err := fixtures.CreateTestPumpOwner(decimal.Zero)
		require.NoError(t, err)
		pump, err := fixtures.CreateTestPump(owner.ID)
		require.NoError(t, err)
		_, _, driverWallet, err := fixtures.CreateTestDriver("TN10RK4321", decimal.NewFromInt(1500))
		require.NoError(t, err)

		// Two verified sales whose combined amount exceeds the balance:
		// only one of them can clear.
		first, err := fixtures.CreateTestTransaction(pump.ID, "TN10RK4321", 10, 100, models.FuelTransactionStatusVerified)
		require.NoError(t, err)
		second, err := fixtures.CreateTestTransaction(pump.ID, "TN10RK4321", 9, 100, models.FuelTransactionStatusVerified)
		require.NoError(t, err)

		results := make(chan *dto.SettlementResultDTO, 2)
		errs := make(chan error, 2)

		var wg sync.WaitGroup
		for _, id := range []uint{first.ID, second.ID} {
			wg.Add(1)
			go func(transactionID uint) {
				defer wg.Done()
				result, err := flow.SettleTransaction(ctx, transactionID)
				if err != nil {
					errs <- err
					return
				}
				results <- result
			}(id)
		}
		wg.Wait()
		close(results)
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		var settled, failed *dto.SettlementResultDTO
		for result := range results {
			switch result.Outcome {
			case dto.SettlementOutcomeSettled:
				require.Nil(t, settled, "both settlements cleared")
				settled = result
			case dto.SettlementOutcomeFailed:
				require.Nil(t, failed, "both settlements failed")
				failed = result
			}
		}
		require.NotNil(t, settled)
		require.NotNil(t, failed)
		assert.Contains(t, failed.FailureReason, "Insufficient driver balance")

		// The winner debits the wallet exactly once and the balance stays
		// non-negative
		dw, err := driverWalletRepo.ByID(ctx, driverWallet.ID)
		require.NoError(t, err)
		expected := decimal.NewFromInt(1500).Sub(settled.Transaction.Amount)
		assert.True(t, dw.Balance.Equal(expected), "driver balance is %s", dw.Balance)
		assert.False(t, dw.Balance.IsNegative())

		pw, err := pumpWalletRepo.ByID(ctx, pumpWallet.ID)
		require.NoError(t, err)
		assert.True(t, pw.Balance.Equal(settled.Transaction.Amount), "pump balance is %s", pw.Balance)

		// Exactly one ledger pair exists across both attempts
		winnerEntries, err := ledgerRepo.ByReference(ctx, models.ReferenceTypeFuelTransaction, settled.Transaction.ID)
		require.NoError(t, err)
		assert.Len(t, winnerEntries, 2)

		loserEntries, err := ledgerRepo.ByReference(ctx, models.ReferenceTypeFuelTransaction, failed.Transaction.ID)
		require.NoError(t, err)
		assert.Empty(t, loserEntries)

		debits, err := ledgerRepo.CountByWallet(ctx, models.WalletTypeDriver, driverWallet.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, debits)

		return nil
	})
	require.NoError(t, err)
}
