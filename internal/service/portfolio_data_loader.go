package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
)

// DataLoaderService centralizes the loading of all data required for portfolio calculations.
// The ledger, reference data and market data are read concurrently.
type DataLoaderService struct {
	movementRepo   *repository.MovementRepository
	instrumentRepo *repository.InstrumentRepository
	marketRepo     *repository.MarketRepository
}

// NewDataLoaderService creates a new DataLoaderService with the provided dependencies.
func NewDataLoaderService(
	movementRepo *repository.MovementRepository,
	instrumentRepo *repository.InstrumentRepository,
	marketRepo *repository.MarketRepository,
) *DataLoaderService {
	return &DataLoaderService{
		movementRepo:   movementRepo,
		instrumentRepo: instrumentRepo,
		marketRepo:     marketRepo,
	}
}

// PortfolioData contains all data needed for portfolio calculations.
//
// Fields are organized by source:
//   - Ledger: Movements, in chronological order
//   - Reference data: Instruments, keyed by ID
//   - Market data: Prices keyed by instrument ID, FXRates as stored and
//     Quotes normalized from them
type PortfolioData struct {
	Movements   []model.Movement
	Instruments map[string]model.Instrument
	Prices      map[string]model.InstrumentPrice
	FXRates     []model.FXRate
	Quotes      fx.Quotes
}

// LoadPortfolioData reads everything a valuation pass needs.
func (s *DataLoaderService) LoadPortfolioData(ctx context.Context) (*PortfolioData, error) {
	data := &PortfolioData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		movements, err := s.movementRepo.List(gctx, model.MovementFilter{})
		if err != nil {
			return fmt.Errorf("failed to load movements: %w", err)
		}
		data.Movements = movements
		return nil
	})

	g.Go(func() error {
		instruments, err := s.instrumentRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to load instruments: %w", err)
		}
		data.Instruments = make(map[string]model.Instrument, len(instruments))
		for _, in := range instruments {
			data.Instruments[in.ID] = in
		}
		return nil
	})

	g.Go(func() error {
		prices, err := s.marketRepo.Prices(gctx)
		if err != nil {
			return fmt.Errorf("failed to load prices: %w", err)
		}
		data.Prices = prices
		return nil
	})

	g.Go(func() error {
		rates, err := s.marketRepo.FXRates(gctx)
		if err != nil {
			return fmt.Errorf("failed to load fx rates: %w", err)
		}
		data.FXRates = rates
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.Quotes = QuotesFromRates(data.FXRates)
	return data, nil
}

// QuotesFromRates normalizes stored raw pairs into quotes. Rows with an
// unknown benchmark are ignored.
func QuotesFromRates(rates []model.FXRate) fx.Quotes {
	quotes := make(fx.Quotes, len(rates))
	for _, r := range rates {
		b, err := fx.ParseBenchmark(r.Benchmark)
		if err != nil {
			continue
		}
		quotes[b] = fx.BuildQuote(&fx.Pair{Buy: r.Buy, Sell: r.Sell})
	}
	return quotes
}
