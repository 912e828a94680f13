package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/config"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fixeddeposit"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/valuation"
)

// PortfolioService values the whole portfolio from the ledger and the latest market data.
type PortfolioService struct {
	dataLoader *DataLoaderService
	engine     valuation.Engine
	cfg        config.EngineConfig
	now        func() time.Time
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(dataLoader *DataLoaderService, cfg config.EngineConfig) *PortfolioService {
	return &PortfolioService{
		dataLoader: dataLoader,
		engine:     valuation.NewEngine(cfg.FXMode),
		cfg:        cfg,
		now:        time.Now,
	}
}

// WithClock replaces the clock used to accrue deposit interest.
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

// PortfolioSnapshot is a point-in-time valuation of every open position.
type PortfolioSnapshot struct {
	AsOf     time.Time                  `json:"asOf"`
	Metrics  []model.AssetMetrics       `json:"metrics"`
	Totals   model.PortfolioAssetTotals `json:"totals"`
	Realized []model.RealizedGainLoss   `json:"realized"`
}

// Snapshot values the portfolio.
//
// Calculation Pipeline:
//  1. Loads the ledger, instruments, prices and FX quotes
//  2. Replays every traded instrument with the configured cost basis method
//  3. Nets cash balances and derives unsettled fixed-term deposits
//  4. Values each open position with the valuation engine
//  5. Aggregates the metrics and adds realized PnL to the totals
//
// Positions with no remaining quantity are omitted from the metrics but their
// realized results still count.
func (s *PortfolioService) Snapshot(ctx context.Context) (PortfolioSnapshot, error) {
	data, err := s.dataLoader.LoadPortfolioData(ctx)
	if err != nil {
		return PortfolioSnapshot{}, err
	}
	now := s.now()

	positions, err := s.positions(data, now)
	if err != nil {
		return PortfolioSnapshot{}, err
	}

	snapshot := PortfolioSnapshot{
		AsOf:     now,
		Metrics:  []model.AssetMetrics{},
		Realized: []model.RealizedGainLoss{},
	}
	var realizedARS, realizedUSD float64
	for _, p := range positions {
		realizedARS += p.realizedARS
		realizedUSD += p.realizedUSD
		snapshot.Realized = append(snapshot.Realized, p.realized...)

		if !(p.input.Quantity > 0) {
			continue
		}
		m, err := s.engine.Compute(p.input, p.prices, data.Quotes)
		if err != nil {
			return PortfolioSnapshot{}, fmt.Errorf("failed to value %s: %w", p.input.InstrumentID, err)
		}
		snapshot.Metrics = append(snapshot.Metrics, m)
	}

	slices.SortFunc(snapshot.Metrics, byClassThenSymbol)
	slices.SortStableFunc(snapshot.Realized, func(a, b model.RealizedGainLoss) int {
		return a.TransactionDate.Compare(b.TransactionDate)
	})
	snapshot.Totals = valuation.WithRealized(valuation.Aggregate(snapshot.Metrics), realizedARS, realizedUSD)
	return snapshot, nil
}

// Metrics returns the per-position valuation.
func (s *PortfolioService) Metrics(ctx context.Context) ([]model.AssetMetrics, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Metrics, nil
}

// Totals returns the aggregated valuation including realized PnL.
func (s *PortfolioService) Totals(ctx context.Context) (model.PortfolioAssetTotals, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return model.PortfolioAssetTotals{}, err
	}
	return snapshot.Totals, nil
}

// RealizedGains returns one entry per sell movement, oldest first, costed in
// the trade currency with the configured cost basis method.
func (s *PortfolioService) RealizedGains(ctx context.Context) ([]model.RealizedGainLoss, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Realized, nil
}

func (s *PortfolioService) positions(data *PortfolioData, now time.Time) ([]position, error) {
	traded, err := tradedPositions(data, s.cfg.CostBasis())
	if err != nil {
		return nil, err
	}

	state := fixeddeposit.Derive(data.Movements, data.Quotes, now, fixeddeposit.Options{
		Converter:      fx.Converter{Mode: s.cfg.FXMode},
		HeuristicMatch: s.cfg.HeuristicRedemptionMatch,
	})

	positions := traded
	positions = append(positions, cashPositions(data.Movements)...)
	positions = append(positions, depositPositions(state, now)...)
	return positions, nil
}
