package service

import (
	"context"
	"time"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
)

// MarketService stores the latest prices and FX pairs pushed by the external feeds.
type MarketService struct {
	instrumentRepo *repository.InstrumentRepository
	marketRepo     *repository.MarketRepository
}

// NewMarketService creates a new MarketService with the provided repository dependencies.
func NewMarketService(
	instrumentRepo *repository.InstrumentRepository,
	marketRepo *repository.MarketRepository,
) *MarketService {
	return &MarketService{
		instrumentRepo: instrumentRepo,
		marketRepo:     marketRepo,
	}
}

// GetPrices returns the latest price of every instrument, keyed by instrument ID.
func (s *MarketService) GetPrices(ctx context.Context) (map[string]model.InstrumentPrice, error) {
	return s.marketRepo.Prices(ctx)
}

// UpdatePrice replaces the latest price of an instrument.
func (s *MarketService) UpdatePrice(ctx context.Context, req request.UpdatePriceRequest) (model.InstrumentPrice, error) {
	if _, err := s.instrumentRepo.Get(ctx, req.InstrumentID); err != nil {
		return model.InstrumentPrice{}, err
	}

	price := model.InstrumentPrice{
		InstrumentID:    req.InstrumentID,
		Price:           req.Price,
		UnderlyingPrice: req.UnderlyingPrice,
		DailyChangePct:  req.DailyChangePct,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := s.marketRepo.UpsertPrice(ctx, price); err != nil {
		return model.InstrumentPrice{}, err
	}
	return price, nil
}

// GetFXRates returns the stored raw pairs.
func (s *MarketService) GetFXRates(ctx context.Context) ([]model.FXRate, error) {
	return s.marketRepo.FXRates(ctx)
}

// GetQuotes returns the normalized quote of every known benchmark.
func (s *MarketService) GetQuotes(ctx context.Context) (fx.Quotes, error) {
	rates, err := s.marketRepo.FXRates(ctx)
	if err != nil {
		return nil, err
	}
	return QuotesFromRates(rates), nil
}

// UpdateFXRate replaces the raw pair of one benchmark. The benchmark name is
// stored in its canonical form.
func (s *MarketService) UpdateFXRate(ctx context.Context, req request.UpdateFXRateRequest) (model.FXRate, error) {
	benchmark, err := fx.ParseBenchmark(req.Benchmark)
	if err != nil {
		return model.FXRate{}, err
	}

	rate := model.FXRate{
		Benchmark: string(benchmark),
		Buy:       req.Buy,
		Sell:      req.Sell,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.marketRepo.UpsertFXRate(ctx, rate); err != nil {
		return model.FXRate{}, err
	}
	return rate, nil
}
