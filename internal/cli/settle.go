package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type settleCmd struct {
	io IO
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "settle every matured fixed-term deposit" }
func (*settleCmd) Usage() string {
	return `pvctl settle

  Appends the redemption and cash credit of every matured deposit.
  Running it again appends nothing new.
`
}

func (*settleCmd) SetFlags(*flag.FlagSet) {}

func (c *settleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := open(c.io)
	if err != nil {
		return fail(c.io, err)
	}
	defer s.Close()

	result, err := s.services.Settlement.Settle(ctx)
	if err != nil {
		return fail(c.io, err)
	}
	if err := writeJSON(c.io.Out, result); err != nil {
		return fail(c.io, err)
	}
	return subcommands.ExitSuccess
}
