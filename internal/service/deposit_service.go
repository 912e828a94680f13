package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/config"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fixeddeposit"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
)

// DepositService derives fixed-term deposits from the ledger.
type DepositService struct {
	movementRepo *repository.MovementRepository
	marketRepo   *repository.MarketRepository
	opts         fixeddeposit.Options
	now          func() time.Time
}

// NewDepositService creates a new DepositService with the provided dependencies.
func NewDepositService(
	movementRepo *repository.MovementRepository,
	marketRepo *repository.MarketRepository,
	cfg config.EngineConfig,
) *DepositService {
	return &DepositService{
		movementRepo: movementRepo,
		marketRepo:   marketRepo,
		opts: fixeddeposit.Options{
			Converter:      fx.Converter{Mode: cfg.FXMode},
			HeuristicMatch: cfg.HeuristicRedemptionMatch,
		},
		now: time.Now,
	}
}

// WithClock replaces the clock deposits are classified against.
func (s *DepositService) WithClock(now func() time.Time) *DepositService {
	s.now = now
	return s
}

// GetState returns every deposit partitioned into active, matured and closed,
// with bucket totals in local and hard currency.
func (s *DepositService) GetState(ctx context.Context) (fixeddeposit.DerivedState, error) {
	state, _, err := s.derive(ctx)
	return state, err
}

// GetProjection returns the earnings outlook of one deposit over the next
// horizonDays.
func (s *DepositService) GetProjection(ctx context.Context, depositID string, horizonDays int) (fixeddeposit.Projection, error) {
	state, now, err := s.derive(ctx)
	if err != nil {
		return fixeddeposit.Projection{}, err
	}
	position, ok := state.Find(depositID)
	if !ok {
		return fixeddeposit.Projection{}, fmt.Errorf("%w: %s", apperrors.ErrDepositNotFound, depositID)
	}
	return fixeddeposit.Project(position, now, horizonDays), nil
}

func (s *DepositService) derive(ctx context.Context) (fixeddeposit.DerivedState, time.Time, error) {
	ledger, err := s.movementRepo.List(ctx, model.MovementFilter{AssetClass: model.AssetClassPF})
	if err != nil {
		return fixeddeposit.DerivedState{}, time.Time{}, err
	}
	rates, err := s.marketRepo.FXRates(ctx)
	if err != nil {
		return fixeddeposit.DerivedState{}, time.Time{}, err
	}
	now := s.now()
	return fixeddeposit.Derive(ledger, QuotesFromRates(rates), now, s.opts), now, nil
}
