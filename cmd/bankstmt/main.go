// Command bankstmt converts bank PDF statements to CSV and imports
// spreadsheet ledgers into the account ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/hqdang/bankstmt/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&convertCmd{cfg: cfg, logger: logger}, "statements")
	subcommands.Register(&importCmd{cfg: cfg, logger: logger}, "statements")
	subcommands.Register(&migrateCmd{cfg: cfg, logger: logger}, "database")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
