package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/database"
)

type migrateCmd struct {
	io IO
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `pvctl migrate

  Applies every pending migration to the database at DB_PATH and prints the schema version.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := open(c.io)
	if err != nil {
		return fail(c.io, err)
	}
	defer s.Close()

	version, err := database.SchemaVersion(s.db)
	if err != nil {
		return fail(c.io, err)
	}
	fmt.Fprintf(c.io.Out, "schema version %d\n", version)
	return subcommands.ExitSuccess
}
