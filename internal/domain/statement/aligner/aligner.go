// Package aligner re-establishes correspondence between the extractor's
// three token streams and emits canonical transaction records. Pairing is a
// positional heuristic with no ground-truth recovery guarantee, so it sits
// behind the PairingPolicy interface: a future source that preserves table
// geometry can replace it without touching classification or cleanup.
package aligner

import (
	"log/slog"

	"github.com/hqdang/bankstmt/internal/domain/record"
	"github.com/hqdang/bankstmt/internal/domain/statement/extractor"
)

// Paired is one reference matched with its transaction magnitude and the
// post-transaction running balance, both signed minor units.
type Paired struct {
	Ref          extractor.Reference
	AmountMinor  int64
	BalanceMinor int64
}

// PairingPolicy matches references to amounts.
type PairingPolicy interface {
	Pair(tokens extractor.Tokens) []Paired
}

// OrdinalPairing is the default policy: the i-th reference consumes the next
// two not-yet-consumed amounts, magnitude first and then running balance. A
// reference with fewer than two amounts left contributes nothing.
type OrdinalPairing struct{}

func (OrdinalPairing) Pair(tokens extractor.Tokens) []Paired {
	cursor := tokens.AmountStart
	pairs := make([]Paired, 0, len(tokens.References))
	for _, ref := range tokens.References {
		if cursor+1 >= len(tokens.Amounts) {
			break
		}
		pairs = append(pairs, Paired{
			Ref:          ref,
			AmountMinor:  tokens.Amounts[cursor].Minor,
			BalanceMinor: tokens.Amounts[cursor+1].Minor,
		})
		cursor += 2
	}
	return pairs
}

// Config tunes alignment. DateStride is the number of processed references
// after which the date cursor advances one position; it approximates the
// visual grouping of transactions under date headers and is documented as
// approximate, not exact.
type Config struct {
	CreditKeywords  []string
	SuffixArtifacts []string
	NamePrefixes    []string
	DateStride      int
}

func DefaultConfig() Config {
	return Config{
		CreditKeywords:  DefaultCreditKeywords,
		SuffixArtifacts: DefaultSuffixArtifacts,
		NamePrefixes:    DefaultNamePrefixes,
		DateStride:      3,
	}
}

// Aligner turns token streams into ordered canonical records.
type Aligner struct {
	policy     PairingPolicy
	classifier *Classifier
	cleaner    *Cleaner
	stride     int
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Aligner {
	if cfg.DateStride < 1 {
		cfg.DateStride = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aligner{
		policy:     OrdinalPairing{},
		classifier: NewClassifier(cfg.CreditKeywords),
		cleaner:    NewCleaner(cfg.SuffixArtifacts, cfg.NamePrefixes),
		stride:     cfg.DateStride,
		logger:     logger,
	}
}

// WithPolicy swaps the pairing policy.
func (a *Aligner) WithPolicy(p PairingPolicy) *Aligner {
	a.policy = p
	return a
}

// Align produces one record per reference that paired with two amounts and a
// non-zero magnitude. References between date-cursor advances share a date.
func (a *Aligner) Align(tokens extractor.Tokens) []record.Transaction {
	pairs := a.policy.Pair(tokens)
	recs := make([]record.Transaction, 0, len(pairs))

	dateIdx := 0
	for i, p := range pairs {
		if i > 0 && i%a.stride == 0 && dateIdx < len(tokens.Dates)-1 {
			dateIdx++
		}

		if p.AmountMinor == 0 {
			a.logger.Debug("dropping zero-amount pairing", "reference", p.Ref.ID)
			continue
		}

		rec := record.Transaction{
			Description:  a.cleaner.Clean(p.Ref.Attached),
			Reference:    p.Ref.ID,
			BalanceMinor: p.BalanceMinor,
			HasBalance:   true,
		}
		if len(tokens.Dates) > 0 {
			rec.Date = tokens.Dates[dateIdx]
		}

		magnitude := p.AmountMinor
		if magnitude < 0 {
			magnitude = -magnitude
		}
		if a.classifier.Classify(p.Ref.Attached) == record.Credit {
			rec.CreditMinor = magnitude
		} else {
			rec.DebitMinor = magnitude
		}

		if err := rec.Validate(); err != nil {
			a.logger.Debug("dropping invalid record", "reference", p.Ref.ID, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}
