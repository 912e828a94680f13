package cli

import (
	"context"
	"errors"
	"flag"

	"github.com/google/subcommands"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
)

var errNegativeDays = errors.New("days must be non-negative")

type depositsCmd struct {
	io      IO
	project string
	days    int
}

func (*depositsCmd) Name() string     { return "deposits" }
func (*depositsCmd) Synopsis() string { return "show fixed-term deposits by status" }
func (*depositsCmd) Usage() string {
	return `pvctl deposits [-project <deposit-id> [-days <n>]]

  Prints active, matured and closed deposits with their totals.
  With -project, prints the earnings outlook of one deposit instead.
`
}

func (c *depositsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.project, "project", "", "ID of the deposit to project")
	f.IntVar(&c.days, "days", request.DefaultProjectionDays, "Projection horizon in days")
}

func (c *depositsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.days < 0 {
		return fail(c.io, errNegativeDays)
	}

	s, err := open(c.io)
	if err != nil {
		return fail(c.io, err)
	}
	defer s.Close()

	if c.project != "" {
		projection, err := s.services.Deposit.GetProjection(ctx, c.project, c.days)
		if err != nil {
			return fail(c.io, err)
		}
		if err := writeJSON(c.io.Out, projection); err != nil {
			return fail(c.io, err)
		}
		return subcommands.ExitSuccess
	}

	state, err := s.services.Deposit.GetState(ctx)
	if err != nil {
		return fail(c.io, err)
	}
	if err := writeJSON(c.io.Out, state); err != nil {
		return fail(c.io, err)
	}
	return subcommands.ExitSuccess
}
