package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/hqdang/bankstmt/internal/domain/export"
	"github.com/hqdang/bankstmt/internal/domain/statement/aligner"
	"github.com/hqdang/bankstmt/internal/domain/statement/extractor"
	"github.com/hqdang/bankstmt/pkg/config"
)

type convertCmd struct {
	cfg    *config.Config
	logger *slog.Logger

	output string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a PDF bank statement to CSV" }
func (*convertCmd) Usage() string {
	return `bankstmt convert <input.pdf> [-o <output.csv>]

  Extracts transactions from a PDF bank statement and writes them to CSV.
  The output path defaults to the input path with a .csv extension.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output CSV path (default: input path with .csv extension).")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input PDF path is required.")
		return subcommands.ExitUsageError
	}
	inputPath := f.Arg(0)
	outputPath := c.output
	if outputPath == "" {
		outputPath = export.DefaultOutputPath(inputPath)
	}

	extCfg := extractor.DefaultConfig()
	extCfg.ReferencePrefix = c.cfg.Pipeline.ReferencePrefix

	tokens, err := extractor.New(extCfg).ExtractFile(inputPath)
	if err != nil {
		if errors.Is(err, extractor.ErrSourceNotFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error extracting statement:", err)
		}
		return subcommands.ExitFailure
	}

	alignCfg := aligner.DefaultConfig()
	alignCfg.CreditKeywords = c.cfg.Pipeline.CreditKeywords
	alignCfg.DateStride = c.cfg.Pipeline.DateStride

	recs := aligner.New(alignCfg, c.logger).Align(tokens)
	if len(recs) == 0 {
		// Parsing completed but produced nothing: unsupported or
		// unrecognized statement format. No partial output is written.
		c.logger.Warn("no transactions recognized in statement", "input", inputPath)
		return subcommands.ExitFailure
	}

	if err := export.WriteFile(outputPath, recs); err != nil {
		fmt.Fprintln(os.Stderr, "Error writing CSV:", err)
		return subcommands.ExitFailure
	}

	c.logger.Info("statement converted",
		"input", inputPath, "output", outputPath, "transactions", len(recs))
	return subcommands.ExitSuccess
}
