package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/service"
)

const settlementTimeout = 2 * time.Minute

// Settler settles matured fixed-term deposits.
type Settler interface {
	Settle(ctx context.Context) (service.SettlementResult, error)
}

// SettlementJob periodically settles matured fixed-term deposits
type SettlementJob struct {
	settler Settler
	log     zerolog.Logger
}

// NewSettlementJob creates a new settlement job
func NewSettlementJob(settler Settler, log zerolog.Logger) *SettlementJob {
	return &SettlementJob{
		settler: settler,
		log:     log.With().Str("job", "fixed_deposit_settlement").Logger(),
	}
}

// Name returns the job name
func (j *SettlementJob) Name() string {
	return "fixed_deposit_settlement"
}

// Run executes one settlement pass
func (j *SettlementJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), settlementTimeout)
	defer cancel()

	start := time.Now()
	result, err := j.settler.Settle(ctx)
	if err != nil {
		return err
	}

	if len(result.Deposits) > 0 {
		j.log.Info().
			Strs("deposits", result.Deposits).
			Dur("duration", time.Since(start)).
			Msg("Fixed-term deposits settled")
	}
	return nil
}
