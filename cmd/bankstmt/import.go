package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hqdang/bankstmt/internal/domain/reconcile"
	"github.com/hqdang/bankstmt/internal/domain/record"
	"github.com/hqdang/bankstmt/internal/domain/workbook"
	"github.com/hqdang/bankstmt/pkg/config"
	"github.com/hqdang/bankstmt/pkg/money"
)

type importCmd struct {
	cfg    *config.Config
	logger *slog.Logger

	account        string
	user           string
	dryRun         bool
	skipDuplicates bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a spreadsheet ledger into an account" }
func (*importCmd) Usage() string {
	return `bankstmt import <file.xlsx> -account <id-or-name> [-user <id>] [-dry-run] [-skip-duplicates]

  Parses every sheet of the workbook, sorts the combined records by date,
  and posts them atomically against the selected account.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account selector: UUID or (fuzzy) name.")
	f.StringVar(&c.user, "user", "", "Acting user UUID recorded on imported rows.")
	f.BoolVar(&c.dryRun, "dry-run", false, "Preview records without touching the ledger.")
	f.BoolVar(&c.skipDuplicates, "skip-duplicates", false, "Skip records already present by natural key.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one workbook path is required.")
		return subcommands.ExitUsageError
	}
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required.")
		return subcommands.ExitUsageError
	}

	var userID *uuid.UUID
	if c.user != "" {
		id, err := uuid.Parse(c.user)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: invalid -user id:", err)
			return subcommands.ExitUsageError
		}
		userID = &id
	}

	wbCfg := workbook.DefaultConfig()
	wbCfg.DateMarker = c.cfg.Pipeline.DateMarker
	wbCfg.DatePhrases = c.cfg.Pipeline.DatePhrases
	wbCfg.DescPhrases = c.cfg.Pipeline.DescPhrases
	wbCfg.AmountPhrases = c.cfg.Pipeline.AmountPhrases
	wbCfg.TagPhrases = c.cfg.Pipeline.TagPhrases

	recs, stats, err := workbook.New(wbCfg, c.logger).ParseFile(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing workbook:", err)
		return subcommands.ExitFailure
	}
	for _, st := range stats {
		c.logger.Info("sheet parsed", "sheet", st.Sheet,
			"considered", st.RowsConsidered, "parsed", st.RowsParsed)
	}
	if len(recs) == 0 {
		c.logger.Warn("workbook produced no records", "input", f.Arg(0))
		return subcommands.ExitFailure
	}

	pool, err := pgxpool.New(ctx, c.cfg.Database.DSN())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error connecting to database:", err)
		return subcommands.ExitFailure
	}
	defer pool.Close()

	store := reconcile.NewPGStore(pool)
	account, err := store.Resolve(ctx, c.account)
	if err != nil {
		if errors.Is(err, reconcile.ErrNoAccount) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error resolving account:", err)
		}
		return subcommands.ExitFailure
	}

	svc := reconcile.NewService(store, c.logger).
		WithPreviewSize(c.cfg.Pipeline.PreviewSize)
	outcome, err := svc.Import(ctx, recs, account, userID, reconcile.Options{
		DryRun:         c.dryRun,
		SkipDuplicates: c.skipDuplicates,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error importing:", err)
		return subcommands.ExitFailure
	}

	c.report(outcome, account)
	return subcommands.ExitSuccess
}

// report is the observational side channel; it must never affect pipeline
// correctness, so it only prints.
func (c *importCmd) report(outcome *reconcile.Outcome, account *reconcile.Account) {
	if len(outcome.Preview) > 0 {
		fmt.Printf("Dry run: %d record(s), showing first %d:\n", outcome.Skipped, len(outcome.Preview))
		for _, rec := range outcome.Preview {
			printPreviewLine(rec, account.CurrencyCode)
		}
		return
	}
	fmt.Printf("Imported %d, skipped %d duplicate(s) into %q.\n",
		outcome.Imported, outcome.Skipped, account.Name)
}

func printPreviewLine(rec record.Transaction, currency string) {
	sign := "-"
	if rec.Direction() == record.Credit {
		sign = "+"
	}
	fmt.Printf("  %s  %s%s  %s\n",
		rec.Date.Format("2006-01-02"), sign,
		money.Display(rec.AmountMinor(), currency), rec.Description)
}
