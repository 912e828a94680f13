package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/config"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fixeddeposit"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/fx"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/repository"
)

// SettlementService writes the redemption and cash credit of every matured
// fixed-term deposit to the ledger.
//
// Settlement is idempotent: every generated movement carries a deterministic
// idempotency key and is only appended when the key is absent, so running it
// any number of times, from any number of callers, settles each deposit once.
type SettlementService struct {
	db           *sql.DB
	movementRepo *repository.MovementRepository
	marketRepo   *repository.MarketRepository
	opts         fixeddeposit.Options
	log          zerolog.Logger
	now          func() time.Time

	mu    sync.Mutex
	group singleflight.Group
}

// NewSettlementService creates a new SettlementService with the provided dependencies.
func NewSettlementService(
	db *sql.DB,
	movementRepo *repository.MovementRepository,
	marketRepo *repository.MarketRepository,
	cfg config.EngineConfig,
	log zerolog.Logger,
) *SettlementService {
	return &SettlementService{
		db:           db,
		movementRepo: movementRepo,
		marketRepo:   marketRepo,
		opts: fixeddeposit.Options{
			Converter:      fx.Converter{Mode: cfg.FXMode},
			HeuristicMatch: cfg.HeuristicRedemptionMatch,
		},
		log: log.With().Str("service", "settlement").Logger(),
		now: time.Now,
	}
}

// WithClock replaces the clock deposits are matured against.
func (s *SettlementService) WithClock(now func() time.Time) *SettlementService {
	s.now = now
	return s
}

// SettlementResult lists what a settlement run appended.
type SettlementResult struct {
	Deposits  []string         `json:"deposits"`
	Movements []model.Movement `json:"movements"`
}

// Settle settles every matured deposit.
//
// Concurrent calls share a single run. Each run reads the ledger, plans the
// missing settlement movements and appends them in one transaction, so a
// failure leaves the ledger untouched.
func (s *SettlementService) Settle(ctx context.Context) (SettlementResult, error) {
	v, err, _ := s.group.Do("settle", func() (any, error) {
		return s.settle(ctx)
	})
	if err != nil {
		return SettlementResult{}, err
	}
	return v.(SettlementResult), nil
}

func (s *SettlementService) settle(ctx context.Context) (SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := SettlementResult{Deposits: []string{}, Movements: []model.Movement{}}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToSettle, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	movements := s.movementRepo.WithTx(tx)
	ledger, err := movements.List(ctx, model.MovementFilter{})
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToSettle, err)
	}
	rates, err := s.marketRepo.WithTx(tx).FXRates(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToSettle, err)
	}

	now := s.now()
	state := fixeddeposit.Derive(ledger, QuotesFromRates(rates), now, s.opts)
	planned := fixeddeposit.PlanSettlements(state, ledger, now)
	if len(planned) == 0 {
		s.log.Debug().Int("matured", len(state.Matured)).Msg("nothing to settle")
		return result, nil
	}

	written, err := movements.AppendIfAbsent(ctx, planned)
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToSettle, err)
	}
	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToSettle, err)
	}

	seen := make(map[string]bool)
	for _, m := range written {
		if id := m.PFID(); id != "" && !seen[id] {
			seen[id] = true
			result.Deposits = append(result.Deposits, id)
		}
	}
	result.Movements = written

	s.log.Info().
		Int("deposits", len(result.Deposits)).
		Int("movements", len(written)).
		Msg("settled matured fixed-term deposits")
	return result, nil
}
