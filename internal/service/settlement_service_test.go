package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fixeddeposit"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/testutil"
)

func TestSettlementService_Settle(t *testing.T) {
	ctx := context.Background()

	t.Run("settles a matured deposit once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		deposit := testutil.NewDeposit("Banco Galicia", 100000, 0.365, 30).WithTimestamp(daysAgo(40)).Build(t, db)
		testutil.NewDeposit("Banco Galicia", 50000, 0.365, 30).WithTimestamp(daysAgo(10)).Build(t, db)

		svc := testutil.NewTestSettlementService(t, db, testutil.TestEngineConfig()).WithClock(testutil.FixedClock(now))

		result, err := svc.Settle(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{deposit.ID}, result.Deposits)
		require.Len(t, result.Movements, 2)
		testutil.AssertRowCount(t, db, "movement", 4)

		redemption, credit := result.Movements[0], result.Movements[1]
		assert.Equal(t, model.MovementSell, redemption.Type)
		assert.Equal(t, model.AssetClassPF, redemption.AssetClass)
		assert.Equal(t, deposit.ID, redemption.PFID())
		assert.Equal(t, model.MovementDeposit, credit.Type)
		assert.Equal(t, model.AssetClassCashARS, credit.AssetClass)
		assert.InDelta(t, 103000, credit.TotalAmount, 1e-9)

		stored, err := repository.NewMovementRepository(db).Get(ctx, credit.ID)
		require.NoError(t, err)
		assert.Equal(t, fixeddeposit.SettlementKey(deposit.ID)+":credit", stored.IdempotencyKey)
		require.NotNil(t, stored.Meta)
		assert.True(t, stored.Meta.Settlement)

		again, err := svc.Settle(ctx)
		require.NoError(t, err)
		assert.Empty(t, again.Deposits)
		assert.Empty(t, again.Movements)
		testutil.AssertRowCount(t, db, "movement", 4)
	})

	t.Run("closes the deposit and credits cash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		deposit := testutil.NewDeposit("Banco Galicia", 100000, 0.365, 30).WithTimestamp(daysAgo(40)).Build(t, db)

		cfg := testutil.TestEngineConfig()
		_, err := testutil.NewTestSettlementService(t, db, cfg).WithClock(testutil.FixedClock(now)).Settle(ctx)
		require.NoError(t, err)

		state, err := testutil.NewTestDepositService(t, db, cfg).WithClock(testutil.FixedClock(now)).GetState(ctx)
		require.NoError(t, err)
		assert.Empty(t, state.Matured)
		require.Len(t, state.Closed, 1)
		assert.Equal(t, deposit.ID, state.Closed[0].ID)

		metrics, err := testutil.NewTestPortfolioService(t, db, cfg).WithClock(testutil.FixedClock(now)).Metrics(ctx)
		require.NoError(t, err)
		require.Len(t, metrics, 1)
		assert.Equal(t, model.AssetClassCashARS, metrics[0].AssetClass)
		assert.InDelta(t, 103000, metrics[0].Quantity, 1e-6)
	})

	t.Run("does nothing without matured deposits", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewDeposit("Banco Galicia", 100000, 0.365, 30).WithTimestamp(daysAgo(1)).Build(t, db)

		result, err := testutil.NewTestSettlementService(t, db, testutil.TestEngineConfig()).
			WithClock(testutil.FixedClock(now)).Settle(ctx)
		require.NoError(t, err)
		assert.Empty(t, result.Movements)
		testutil.AssertRowCount(t, db, "movement", 1)
	})

	t.Run("foreign currency openings are never credited", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewDeposit("Banco Galicia", 1000, 0.0365, 30).WithCurrency("USD").WithTimestamp(daysAgo(31)).Build(t, db)

		result, err := testutil.NewTestSettlementService(t, db, testutil.TestEngineConfig()).
			WithClock(testutil.FixedClock(now)).Settle(ctx)
		require.NoError(t, err)
		assert.Empty(t, result.Movements)
		testutil.AssertRowCount(t, db, "movement", 1)
	})

	t.Run("concurrent runs settle each deposit once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		for range 3 {
			testutil.NewDeposit("Banco Galicia", 10000, 0.365, 30).WithTimestamp(daysAgo(45)).Build(t, db)
		}
		svc := testutil.NewTestSettlementService(t, db, testutil.TestEngineConfig()).WithClock(testutil.FixedClock(now))

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Settle(ctx)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		testutil.AssertRowCount(t, db, "movement", 9)
	})

	t.Run("two services over one database do not duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewDeposit("Banco Galicia", 10000, 0.365, 30).WithTimestamp(daysAgo(45)).Build(t, db)

		cfg := testutil.TestEngineConfig()
		first := testutil.NewTestSettlementService(t, db, cfg).WithClock(testutil.FixedClock(now))
		second := testutil.NewTestSettlementService(t, db, cfg).WithClock(testutil.FixedClock(now.AddDate(0, 0, 1)))

		_, err := first.Settle(ctx)
		require.NoError(t, err)
		result, err := second.Settle(ctx)
		require.NoError(t, err)
		assert.Empty(t, result.Movements)
		testutil.AssertRowCount(t, db, "movement", 3)
	})
}
