package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type metricsCmd struct {
	io     IO
	totals bool
}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "value the portfolio" }
func (*metricsCmd) Usage() string {
	return `pvctl metrics [-totals]

  Prints the per-asset metrics, totals and realized results of the portfolio.
  With -totals, prints only the aggregated totals.
`
}

func (c *metricsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.totals, "totals", false, "Print only the portfolio totals")
}

func (c *metricsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := open(c.io)
	if err != nil {
		return fail(c.io, err)
	}
	defer s.Close()

	snapshot, err := s.services.Portfolio.Snapshot(ctx)
	if err != nil {
		return fail(c.io, err)
	}

	var out any = snapshot
	if c.totals {
		out = snapshot.Totals
	}
	if err := writeJSON(c.io.Out, out); err != nil {
		return fail(c.io, err)
	}
	return subcommands.ExitSuccess
}
