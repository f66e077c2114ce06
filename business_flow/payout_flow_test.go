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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayoutFlow(testDB *testingutil.TestDB) (businessflow.PayoutFlow, repository.PumpWalletRepository, repository.WalletLedgerRepository) {
	return newPayoutFlowWithConfig(testDB, testEscrowConfig())
}

func newPayoutFlowWithConfig(testDB *testingutil.TestDB, escrowCfg config.EscrowConfig) (businessflow.PayoutFlow, repository.PumpWalletRepository, repository.WalletLedgerRepository) {
	pumpWalletRepo := repository.NewPumpWalletRepository(testDB.DB)
	ledgerRepo := repository.NewWalletLedgerRepository(testDB.DB)
	flow := businessflow.NewPayoutFlow(
		repository.NewPumpSettlementRepository(testDB.DB),
		repository.NewPumpOwnerRepository(testDB.DB),
		pumpWalletRepo,
		repository.NewFuelTransactionRepository(testDB.DB),
		ledgerRepo,
		services.NewLogNotifier(nil),
		testDB.DB,
		escrowCfg,
	)
	return flow, pumpWalletRepo, ledgerRepo
}

func TestSettlementRequestAndApproval(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		flow, pumpWalletRepo, ledgerRepo := newPayoutFlow(testDB)

		owner, wallet, err := fixtures.CreateTestPumpOwner(decimal.NewFromInt(10000))
		require.NoError(t, err)

		t.Run("RequestHoldsNothing", func(t *testing.T) {
			settlement, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
				PumpOwnerID:   owner.ID,
				Amount:        decimal.NewFromInt(4000),
				BankReference: "HDFC-XXXX-1234",
			})
			require.NoError(t, err)
			assert.Equal(t, string(models.PumpSettlementStatusPending), settlement.Status)
			assert.Equal(t, "INR", settlement.Currency)
			assert.Nil(t, settlement.ProcessedAt)

			// Requesting never moves money
			w, err := pumpWalletRepo.ByID(ctx, wallet.ID)
			require.NoError(t, err)
			assert.True(t, w.Balance.Equal(decimal.NewFromInt(10000)))
		})

		t.Run("RequestBeyondBalanceIsRefused", func(t *testing.T) {
			_, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
				PumpOwnerID: owner.ID,
				Amount:      decimal.NewFromInt(50000),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInsufficientFunds(err))
		})

		t.Run("ApproveDebitsWallet", func(t *testing.T) {
			settlement, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
				PumpOwnerID: owner.ID,
				Amount:      decimal.NewFromInt(2500),
			})
			require.NoError(t, err)

			processed, err := flow.ProcessSettlement(ctx, &dto.ProcessSettlementRequest{
				SettlementID: settlement.ID,
				Action:       "approve",
				Notes:        "transferred via NEFT",
			})
			require.NoError(t, err)
			assert.Equal(t, string(models.PumpSettlementStatusApproved), processed.Status)
			require.NotNil(t, processed.ProcessedAt)

			w, err := pumpWalletRepo.ByID(ctx, wallet.ID)
			require.NoError(t, err)
			assert.True(t, w.Balance.Equal(decimal.NewFromInt(7500)))

			entries, err := ledgerRepo.ByReference(ctx, models.ReferenceTypePumpSettlement, settlement.ID)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, models.LedgerEventSettlement, entries[0].EventType)
			assert.Equal(t, models.LedgerDirectionDebit, entries[0].Direction)
			assert.True(t, entries[0].BalanceAfter.Equal(decimal.NewFromInt(7500)))

			// A second decision on the same request is refused
			_, err = flow.ProcessSettlement(ctx, &dto.ProcessSettlementRequest{
				SettlementID: settlement.ID,
				Action:       "reject",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsSettlementProcessed(err))
		})

		t.Run("RejectLeavesWalletUntouched", func(t *testing.T) {
			settlement, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
				PumpOwnerID: owner.ID,
				Amount:      decimal.NewFromInt(1000),
			})
			require.NoError(t, err)

			before, err := pumpWalletRepo.ByID(ctx, wallet.ID)
			require.NoError(t, err)

			processed, err := flow.ProcessSettlement(ctx, &dto.ProcessSettlementRequest{
				SettlementID: settlement.ID,
				Action:       "reject",
				Notes:        "bank details mismatch",
			})
			require.NoError(t, err)
			assert.Equal(t, string(models.PumpSettlementStatusRejected), processed.Status)
			assert.Equal(t, "bank details mismatch", processed.Notes)

			after, err := pumpWalletRepo.ByID(ctx, wallet.ID)
			require.NoError(t, err)
			assert.True(t, after.Balance.Equal(before.Balance))

			entries, err := ledgerRepo.ByReference(ctx, models.ReferenceTypePumpSettlement, settlement.ID)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})

		t.Run("ApprovalRechecksBalance", func(t *testing.T) {
			// Two requests each individually covered; approving both would
			// overdraw, so the second approval must fail.
			first, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
				PumpOwnerID: owner.ID,
				Amount:      decimal.NewFromInt(4000),
			})
			require.NoError(t, err)
			second, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
				PumpOwnerID: owner.ID,
				Amount:      decimal.NewFromInt(4000),
			})
			require.NoError(t, err)

			_, err = flow.ProcessSettlement(ctx, &dto.ProcessSettlementRequest{
				SettlementID: first.ID,
				Action:       "approve",
			})
			require.NoError(t, err)

			_, err = flow.ProcessSettlement(ctx, &dto.ProcessSettlementRequest{
				SettlementID: second.ID,
				Action:       "approve",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInsufficientFunds(err))

			// The refused approval leaves the request pending and the wallet intact
			w, err := pumpWalletRepo.ByID(ctx, wallet.ID)
			require.NoError(t, err)
			assert.True(t, w.Balance.Equal(decimal.NewFromInt(3500)))
		})

		t.Run("UnknownActionIsRefused", func(t *testing.T) {
			_, err := flow.ProcessSettlement(ctx, &dto.ProcessSettlementRequest{
				SettlementID: 1,
				Action:       "escalate",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPayoutAction(err))
		})

		t.Run("CurrencyComesFromConfig", func(t *testing.T) {
			cfg := testEscrowConfig()
			cfg.Currency = "AED"
			flowAED, _, _ := newPayoutFlowWithConfig(testDB, cfg)

			settlement, err := flowAED.RequestSettlement(ctx, &dto.RequestSettlementRequest{
				PumpOwnerID: owner.ID,
				Amount:      decimal.NewFromInt(100),
			})
			require.NoError(t, err)
			assert.Equal(t, "AED", settlement.Currency)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSettlementListingAndSummary(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		flow, _, _ := newPayoutFlow(testDB)

		owner, _, err := fixtures.CreateTestPumpOwner(decimal.NewFromInt(5000))
		require.NoError(t, err)

		pending, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
			PumpOwnerID: owner.ID,
			Amount:      decimal.NewFromInt(1500),
		})
		require.NoError(t, err)

		approved, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
			PumpOwnerID: owner.ID,
			Amount:      decimal.NewFromInt(1000),
		})
		require.NoError(t, err)
		_, err = flow.ProcessSettlement(ctx, &dto.ProcessSettlementRequest{
			SettlementID: approved.ID,
			Action:       "approve",
		})
		require.NoError(t, err)

		t.Run("ListAll", func(t *testing.T) {
			page, err := flow.ListSettlements(ctx, &dto.ListSettlementsRequest{
				PumpOwnerID: owner.ID,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(2), page.Pagination.Total)
		})

		t.Run("ListFiltersByStatus", func(t *testing.T) {
			status := string(models.PumpSettlementStatusPending)
			page, err := flow.ListSettlements(ctx, &dto.ListSettlementsRequest{
				PumpOwnerID: owner.ID,
				Status:      &status,
			})
			require.NoError(t, err)
			require.Len(t, page.Settlements, 1)
			assert.Equal(t, pending.ID, page.Settlements[0].ID)
		})

		t.Run("SummaryReflectsHolds", func(t *testing.T) {
			summary, err := flow.GetSettlementSummary(ctx, owner.ID)
			require.NoError(t, err)
			// 5000 funded minus the 1000 approved payout
			assert.True(t, summary.AvailableBalance.Equal(decimal.NewFromInt(4000)))
			assert.True(t, summary.PendingSettlements.Equal(decimal.NewFromInt(1500)))
			assert.True(t, summary.TodaySales.Equal(decimal.Zero))
			assert.Equal(t, "INR", summary.Currency)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestConcurrentApproval(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		flow, pumpWalletRepo, ledgerRepo := newPayoutFlow(testDB)

		owner, wallet, err := fixtures.CreateTestPumpOwner(decimal.NewFromInt(5000))
		require.NoError(t, err)

		settlement, err := flow.RequestSettlement(ctx, &dto.RequestSettlementRequest{
			PumpOwnerID: owner.ID,
			Amount:      decimal.NewFromInt(3000),
		})
		require.NoError(t, err)

		// Two admins race to approve the same request
		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := flow.ProcessSettlement(ctx, &dto.ProcessSettlementRequest{
					SettlementID: settlement.ID,
					Action:       "approve",
					Notes:        "transferred via NEFT",
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var approved, alreadyProcessed int
		for err := range errs {
			if err == nil {
				approved++
				continue
			}
			require.True(t, businessflow.IsSettlementProcessed(err), "unexpected error: %v", err)
			alreadyProcessed++
		}
		assert.Equal(t, 1, approved)
		assert.Equal(t, 1, alreadyProcessed)

		// The wallet is debited exactly once
		w, err := pumpWalletRepo.ByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(2000)), "pump balance is %s", w.Balance)

		entries, err := ledgerRepo.ByReference(ctx, models.ReferenceTypePumpSettlement, settlement.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		return nil
	})
	require.NoError(t, err)
}
