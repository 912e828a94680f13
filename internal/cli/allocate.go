package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api/request"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/validation"
)

type allocateCmd struct {
	io IO
}

func (*allocateCmd) Name() string     { return "allocate" }
func (*allocateCmd) Synopsis() string { return "simulate a sale against the open lots of an instrument" }
func (*allocateCmd) Usage() string {
	return `pvctl allocate < request.json

  Reads an allocation request from stdin, for example
    {"instrumentId": "...", "quantity": "15", "salePrice": "300", "strategy": "FIFO"}
  and prints the lots the sale would consume. Nothing is written.
`
}

func (*allocateCmd) SetFlags(*flag.FlagSet) {}

func (c *allocateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var req request.AllocateRequest
	if err := json.NewDecoder(c.io.In).Decode(&req); err != nil {
		fmt.Fprintf(c.io.Err, "Error: invalid request: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := validation.ValidateAllocate(req); err != nil {
		fmt.Fprintf(c.io.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := open(c.io)
	if err != nil {
		return fail(c.io, err)
	}
	defer s.Close()

	result, err := s.services.Lot.Allocate(ctx, req)
	if err != nil {
		return fail(c.io, err)
	}
	if err := writeJSON(c.io.Out, result); err != nil {
		return fail(c.io, err)
	}
	return subcommands.ExitSuccess
}
