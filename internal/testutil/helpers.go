package testutil

import (
	"database/sql"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/config"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/lots"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/service"
)

// TestEngineConfig is the engine configuration used by the test constructors:
// liquidation FX, FIFO cost basis and no heuristic redemption matching.
func TestEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		FXMode:          fx.Liquidation,
		CostBasisMethod: lots.FIFO,
	}
}

// FixedClock returns a clock that always reports now.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// NopLogger returns a logger that discards everything.
func NopLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func NewTestDataLoaderService(t *testing.T, db *sql.DB) *service.DataLoaderService {
	t.Helper()

	return service.NewDataLoaderService(
		repository.NewMovementRepository(db),
		repository.NewInstrumentRepository(db),
		repository.NewMarketRepository(db),
	)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB, cfg config.EngineConfig) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(NewTestDataLoaderService(t, db), cfg)
}

func NewTestMovementService(t *testing.T, db *sql.DB) *service.MovementService {
	t.Helper()

	return service.NewMovementService(
		repository.NewMovementRepository(db),
		repository.NewInstrumentRepository(db),
	)
}

func NewTestInstrumentService(t *testing.T, db *sql.DB) *service.InstrumentService {
	t.Helper()

	return service.NewInstrumentService(repository.NewInstrumentRepository(db))
}

func NewTestMarketService(t *testing.T, db *sql.DB) *service.MarketService {
	t.Helper()

	return service.NewMarketService(
		repository.NewInstrumentRepository(db),
		repository.NewMarketRepository(db),
	)
}

func NewTestLotService(t *testing.T, db *sql.DB, method lots.Strategy) *service.LotService {
	t.Helper()

	return service.NewLotService(
		repository.NewMovementRepository(db),
		repository.NewInstrumentRepository(db),
		repository.NewMarketRepository(db),
		method,
	)
}

func NewTestDepositService(t *testing.T, db *sql.DB, cfg config.EngineConfig) *service.DepositService {
	t.Helper()

	return service.NewDepositService(
		repository.NewMovementRepository(db),
		repository.NewMarketRepository(db),
		cfg,
	)
}

func NewTestSettlementService(t *testing.T, db *sql.DB, cfg config.EngineConfig) *service.SettlementService {
	t.Helper()

	return service.NewSettlementService(
		db,
		repository.NewMovementRepository(db),
		repository.NewMarketRepository(db),
		cfg,
		NopLogger(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeSymbolName generates a unique instrument name for testing.
//
// Example usage:
//
//	name := testutil.MakeSymbolName("Tech Symbol")
//	// Returns: "Tech Symbol XYZ789"
func MakeSymbolName(base string) string {
	if base == "" {
		base = "Symbol"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
