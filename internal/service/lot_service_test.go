package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/lots"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/testutil"
)

func decEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

type lotFixture struct {
	db            *sql.DB
	instrument    model.Instrument
	first, second model.Movement
}

// newLotFixture stores two buys of one instrument: 10 at 100 then 10 at 200.
func newLotFixture(t *testing.T) lotFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	instrument := testutil.NewInstrument().Build(t, db)
	first := testutil.NewMovement(model.MovementBuy).WithInstrument(instrument).
		WithTimestamp(daysAgo(20)).WithQuantity(10).WithPrice(100).Build(t, db)
	second := testutil.NewMovement(model.MovementBuy).WithInstrument(instrument).
		WithTimestamp(daysAgo(10)).WithQuantity(10).WithPrice(200).Build(t, db)

	return lotFixture{db: db, instrument: instrument, first: first, second: second}
}

func TestLotService(t *testing.T) {
	ctx := context.Background()

	t.Run("lists open lots valued at the latest price", func(t *testing.T) {
		f := newLotFixture(t)
		testutil.CreatePrice(t, f.db, f.instrument.ID, 300)

		book, err := testutil.NewTestLotService(t, f.db, lots.FIFO).GetLots(ctx, f.instrument.ID)
		require.NoError(t, err)
		decEqual(t, "20", book.Quantity)
		decEqual(t, "3000", book.TotalCost)
		require.Len(t, book.Lots, 2)
		assert.Equal(t, f.first.ID, book.Lots[0].ID)
		require.True(t, book.Lots[0].CurrentValue.Valid)
		decEqual(t, "3000", book.Lots[0].CurrentValue.Decimal)
		decEqual(t, "2000", book.Lots[0].UnrealizedPnL.Decimal)
		decEqual(t, "1000", book.Lots[1].UnrealizedPnL.Decimal)
	})

	t.Run("leaves lots unvalued without a price", func(t *testing.T) {
		f := newLotFixture(t)

		book, err := testutil.NewTestLotService(t, f.db, lots.FIFO).GetLots(ctx, f.instrument.ID)
		require.NoError(t, err)
		assert.False(t, book.Price.Valid)
		assert.False(t, book.Lots[0].CurrentValue.Valid)
	})

	t.Run("allocates with the configured method at the latest price", func(t *testing.T) {
		f := newLotFixture(t)
		testutil.CreatePrice(t, f.db, f.instrument.ID, 300)

		result, err := testutil.NewTestLotService(t, f.db, lots.FIFO).Allocate(ctx, request.AllocateRequest{
			InstrumentID: f.instrument.ID,
			Quantity:     decimal.NewFromInt(15),
		})
		require.NoError(t, err)
		assert.Equal(t, lots.FIFO, result.Strategy)
		decEqual(t, "2000", result.TotalCost)
		decEqual(t, "4500", result.TotalProceeds)
		decEqual(t, "2500", result.RealizedPnL)
		require.Len(t, result.Allocations, 2)
		assert.Equal(t, f.first.ID, result.Allocations[0].LotID)
	})

	t.Run("honors a requested strategy and sale price", func(t *testing.T) {
		f := newLotFixture(t)

		result, err := testutil.NewTestLotService(t, f.db, lots.FIFO).Allocate(ctx, request.AllocateRequest{
			InstrumentID: f.instrument.ID,
			Quantity:     decimal.NewFromInt(15),
			SalePrice:    decimal.NewNullDecimal(decimal.NewFromInt(300)),
			Strategy:     "lifo",
		})
		require.NoError(t, err)
		assert.Equal(t, lots.LIFO, result.Strategy)
		decEqual(t, "2500", result.TotalCost)
		decEqual(t, "2000", result.RealizedPnL)
	})

	t.Run("allocates manually chosen lots", func(t *testing.T) {
		f := newLotFixture(t)

		result, err := testutil.NewTestLotService(t, f.db, lots.FIFO).Allocate(ctx, request.AllocateRequest{
			InstrumentID: f.instrument.ID,
			Quantity:     decimal.NewFromInt(4),
			SalePrice:    decimal.NewNullDecimal(decimal.NewFromInt(250)),
			Strategy:     "manual",
			Manual:       []lots.ManualAllocation{{LotID: f.second.ID, Quantity: decimal.NewFromInt(4)}},
		})
		require.NoError(t, err)
		decEqual(t, "800", result.TotalCost)
		decEqual(t, "200", result.RealizedPnL)
	})

	t.Run("fails without any price", func(t *testing.T) {
		f := newLotFixture(t)

		_, err := testutil.NewTestLotService(t, f.db, lots.FIFO).Allocate(ctx, request.AllocateRequest{
			InstrumentID: f.instrument.ID,
			Quantity:     decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, apperrors.ErrPriceNotFound)
	})

	t.Run("fails for an unknown instrument", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		_, err := testutil.NewTestLotService(t, db, lots.FIFO).GetLots(ctx, testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrInstrumentNotFound)
	})

	t.Run("rejects an unknown strategy", func(t *testing.T) {
		f := newLotFixture(t)

		_, err := testutil.NewTestLotService(t, f.db, lots.FIFO).Allocate(ctx, request.AllocateRequest{
			InstrumentID: f.instrument.ID,
			Quantity:     decimal.NewFromInt(1),
			Strategy:     "hifo",
		})
		assert.ErrorIs(t, err, apperrors.ErrUnknownStrategy)
	})
}
