package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hqdang/bankstmt/pkg/config"
)

type migrateCmd struct {
	cfg    *config.Config
	logger *slog.Logger

	dir string
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply database migrations" }
func (*migrateCmd) Usage() string {
	return `bankstmt migrate [-dir <migrations>]

  Applies pending goose migrations to the configured database.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "migrations", "Directory holding goose SQL migrations.")
}

func (c *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := goose.OpenDBWithDriver("pgx", c.cfg.Database.DSN())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening database:", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := goose.Up(db, c.dir); err != nil {
		fmt.Fprintln(os.Stderr, "Error applying migrations:", err)
		return subcommands.ExitFailure
	}
	c.logger.Info("migrations applied", "dir", c.dir)
	return subcommands.ExitSuccess
}
