package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
)

// InstrumentBuilder provides a fluent interface for creating test instruments.
//
// Example usage:
//
//	// Simple creation with defaults
//	instrument := testutil.NewInstrument().Build(t, db)
//
//	// Customized instrument
//	instrument := testutil.NewInstrument().
//	    WithSymbol("AAPL").
//	    WithAssetClass(model.AssetClassCEDEAR).
//	    WithRatio(10).
//	    Build(t, db)
type InstrumentBuilder struct {
	instrument model.Instrument
}

// NewInstrument creates an InstrumentBuilder with sensible defaults: a local
// share priced in ARS.
func NewInstrument() *InstrumentBuilder {
	return &InstrumentBuilder{instrument: model.Instrument{
		ID:         MakeID(),
		Symbol:     MakeSymbol("TEST"),
		Name:       MakeSymbolName("Instrument"),
		AssetClass: model.AssetClassAccion,
		Currency:   model.LocalCurrency,
	}}
}

// WithID sets a custom ID.
func (b *InstrumentBuilder) WithID(id string) *InstrumentBuilder {
	b.instrument.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *InstrumentBuilder) WithSymbol(symbol string) *InstrumentBuilder {
	b.instrument.Symbol = symbol
	return b
}

// WithAssetClass sets the asset class.
func (b *InstrumentBuilder) WithAssetClass(class model.AssetClass) *InstrumentBuilder {
	b.instrument.AssetClass = class
	return b
}

// WithCurrency sets the price currency.
func (b *InstrumentBuilder) WithCurrency(currency string) *InstrumentBuilder {
	b.instrument.Currency = currency
	return b
}

// WithRatio sets the CEDEAR ratio.
func (b *InstrumentBuilder) WithRatio(ratio float64) *InstrumentBuilder {
	b.instrument.Ratio = ratio
	return b
}

// Build creates the instrument in the database and returns it.
func (b *InstrumentBuilder) Build(t *testing.T, db *sql.DB) model.Instrument {
	t.Helper()

	if err := repository.NewInstrumentRepository(db).Insert(context.Background(), b.instrument); err != nil {
		t.Fatalf("Failed to create test instrument: %v", err)
	}
	return b.instrument
}

// MovementBuilder provides a fluent interface for creating ledger entries.
//
// Example usage:
//
//	testutil.NewMovement(model.MovementBuy).
//	    WithInstrument(instrument).
//	    WithQuantity(10).
//	    WithPrice(100).
//	    Build(t, db)
type MovementBuilder struct {
	movement model.Movement
}

// NewMovement creates a MovementBuilder of the given type with sensible
// defaults: one unit of local cash, dated a month ago.
func NewMovement(movementType model.MovementType) *MovementBuilder {
	return &MovementBuilder{movement: model.Movement{
		ID:         MakeID(),
		Timestamp:  time.Now().UTC().AddDate(0, -1, 0).Truncate(time.Second),
		Type:       movementType,
		AssetClass: model.AssetClassCashARS,
		AccountID:  "main",
		Quantity:   1,
		Price:      1,
		Currency:   model.LocalCurrency,
	}}
}

// WithID sets a custom ID.
func (b *MovementBuilder) WithID(id string) *MovementBuilder {
	b.movement.ID = id
	return b
}

// WithTimestamp sets when the movement happened.
func (b *MovementBuilder) WithTimestamp(ts time.Time) *MovementBuilder {
	b.movement.Timestamp = ts
	return b
}

// WithInstrument ties the movement to an instrument, copying its class and currency.
func (b *MovementBuilder) WithInstrument(in model.Instrument) *MovementBuilder {
	b.movement.InstrumentID = in.ID
	b.movement.AssetClass = in.AssetClass
	b.movement.Currency = in.Currency
	return b
}

// WithAssetClass sets the asset class.
func (b *MovementBuilder) WithAssetClass(class model.AssetClass) *MovementBuilder {
	b.movement.AssetClass = class
	return b
}

// WithCurrency sets the trade currency.
func (b *MovementBuilder) WithCurrency(currency string) *MovementBuilder {
	b.movement.Currency = currency
	return b
}

// WithQuantity sets the quantity.
func (b *MovementBuilder) WithQuantity(qty float64) *MovementBuilder {
	b.movement.Quantity = qty
	return b
}

// WithPrice sets the unit price.
func (b *MovementBuilder) WithPrice(price float64) *MovementBuilder {
	b.movement.Price = price
	return b
}

// WithTotal sets the total amount.
func (b *MovementBuilder) WithTotal(total float64) *MovementBuilder {
	b.movement.TotalAmount = total
	return b
}

// WithFXRate records the local-per-hard rate at trade time.
func (b *MovementBuilder) WithFXRate(rate float64) *MovementBuilder {
	b.movement.FXRate = &rate
	return b
}

// WithMeta sets the movement meta.
func (b *MovementBuilder) WithMeta(meta *model.MovementMeta) *MovementBuilder {
	b.movement.Meta = meta
	return b
}

// WithIdempotencyKey sets the idempotency key.
func (b *MovementBuilder) WithIdempotencyKey(key string) *MovementBuilder {
	b.movement.IdempotencyKey = key
	return b
}

// Model returns the movement without storing it.
func (b *MovementBuilder) Model() model.Movement {
	m := b.movement
	if m.TotalAmount == 0 {
		m.TotalAmount = m.Quantity * m.Price
	}
	return m
}

// Build creates the movement in the database and returns it.
func (b *MovementBuilder) Build(t *testing.T, db *sql.DB) model.Movement {
	t.Helper()

	m := b.Model()
	if err := repository.NewMovementRepository(db).Insert(context.Background(), m); err != nil {
		t.Fatalf("Failed to create test movement: %v", err)
	}
	return m
}

// NewDeposit creates a MovementBuilder for the constitution of a fixed-term
// deposit in local currency.
//
// Example usage:
//
//	deposit := testutil.NewDeposit("Banco Nación", 100000, 0.36, 30).
//	    WithTimestamp(start).
//	    Build(t, db)
func NewDeposit(institution string, principal, rate float64, termDays int) *MovementBuilder {
	return NewMovement(model.MovementBuy).
		WithAssetClass(model.AssetClassPF).
		WithQuantity(1).
		WithPrice(principal).
		WithMeta(&model.MovementMeta{PF: &model.FixedDepositTerms{
			Institution: institution,
			Principal:   principal,
			NominalRate: rate,
			TermDays:    termDays,
		}})
}

// CreatePrice stores the latest price of an instrument.
func CreatePrice(t *testing.T, db *sql.DB, instrumentID string, price float64) model.InstrumentPrice {
	t.Helper()

	p := model.InstrumentPrice{InstrumentID: instrumentID, Price: &price, UpdatedAt: time.Now().UTC()}
	if err := repository.NewMarketRepository(db).UpsertPrice(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}
	return p
}

// CreateFXRate stores the raw buy/sell pair of a benchmark.
func CreateFXRate(t *testing.T, db *sql.DB, benchmark fx.Benchmark, buy, sell float64) model.FXRate {
	t.Helper()

	rate := model.FXRate{Benchmark: string(benchmark), Buy: &buy, Sell: &sell, UpdatedAt: time.Now().UTC()}
	if err := repository.NewMarketRepository(db).UpsertFXRate(context.Background(), rate); err != nil {
		t.Fatalf("Failed to create test fx rate: %v", err)
	}
	return rate
}
