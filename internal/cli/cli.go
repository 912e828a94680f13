// Package cli holds the pvctl subcommands. Every command works directly on
// the configured database, without going through the HTTP server.
package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/api"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/config"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/database"
	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/logger"
)

// IO is where commands read requests from and write results to.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO binds commands to the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Commands returns every pvctl subcommand bound to streams.
func Commands(streams IO) []subcommands.Command {
	return []subcommands.Command{
		&migrateCmd{io: streams},
		&depositsCmd{io: streams},
		&settleCmd{io: streams},
		&allocateCmd{io: streams},
		&metricsCmd{io: streams},
	}
}

// session is an opened, migrated database with the services wired over it.
type session struct {
	db       *sql.DB
	services api.Services
}

func open(streams IO) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewWithWriter(logger.Config{Level: cfg.Log.Level, Pretty: true}, streams.Err)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &session{db: db, services: api.NewServices(db, cfg, log)}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail prints err and reports a failed run.
func fail(streams IO, err error) subcommands.ExitStatus {
	fmt.Fprintf(streams.Err, "Error: %v\n", err)
	return subcommands.ExitFailure
}
