// Package reconcile merges, deduplicates, and atomically posts canonical
// records against the account ledger. It is format-agnostic: only the
// canonical record shape comes in, regardless of which extractor produced it.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hqdang/bankstmt/internal/domain/record"
)

// ErrNoAccount means the account selector resolved to nothing.
var ErrNoAccount = errors.New("account not found")

// Options control one import run.
type Options struct {
	DryRun         bool
	SkipDuplicates bool
}

// Outcome aggregates per-run counters. In dry-run mode Preview holds the
// bounded record list and every record counts as skipped.
type Outcome struct {
	Imported int
	Skipped  int
	Errors   int
	Preview  []record.Transaction
}

// Account is the external ledger row the run posts against.
type Account struct {
	ID           uuid.UUID
	Name         string
	BalanceMinor int64
	CurrencyCode string
}

// AccountStore looks accounts up by identifier or name.
type AccountStore interface {
	Resolve(ctx context.Context, selector string) (*Account, error)
}

// LedgerTx is the set of operations available inside the atomic scope.
type LedgerTx interface {
	Exists(ctx context.Context, accountID uuid.UUID, rec record.Transaction) (bool, error)
	Insert(ctx context.Context, accountID uuid.UUID, userID *uuid.UUID, rec record.Transaction) error
	AdjustBalance(ctx context.Context, accountID uuid.UUID, deltaMinor int64) error
}

// Ledger opens the atomic scope covering a whole run. The scope is acquired
// once, released exactly once on every exit path, and rolled back entirely
// if fn returns an error.
type Ledger interface {
	RunInTransaction(ctx context.Context, fn func(LedgerTx) error) error
}

// Service is the reconciliation and import engine.
type Service struct {
	ledger      Ledger
	logger      *slog.Logger
	previewSize int
}

func NewService(ledger Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ledger: ledger, logger: logger, previewSize: 20}
}

// WithPreviewSize overrides the dry-run preview bound.
func (s *Service) WithPreviewSize(n int) *Service {
	if n > 0 {
		s.previewSize = n
	}
	return s
}

// Import posts records in the caller's order. The caller is responsible for
// chronological sorting; cross-document merges may intentionally interleave
// by a different key, so the engine never re-sorts.
func (s *Service) Import(ctx context.Context, recs []record.Transaction, account *Account, userID *uuid.UUID, opts Options) (*Outcome, error) {
	if account == nil {
		return nil, ErrNoAccount
	}

	if opts.DryRun {
		preview := recs
		if len(preview) > s.previewSize {
			preview = preview[:s.previewSize]
		}
		return &Outcome{Skipped: len(recs), Preview: preview}, nil
	}

	outcome := &Outcome{}
	err := s.ledger.RunInTransaction(ctx, func(tx LedgerTx) error {
		for _, rec := range recs {
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("invalid record: %w", err)
			}

			if opts.SkipDuplicates {
				dup, err := tx.Exists(ctx, account.ID, rec)
				if err != nil {
					return fmt.Errorf("duplicate check: %w", err)
				}
				if dup {
					outcome.Skipped++
					continue
				}
			}

			if err := tx.Insert(ctx, account.ID, userID, rec); err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
			if err := tx.AdjustBalance(ctx, account.ID, rec.SignedMinor()); err != nil {
				return fmt.Errorf("adjust balance: %w", err)
			}
			outcome.Imported++
		}
		return nil
	})
	if err != nil {
		// The rollback already discarded every posting; the counters
		// accumulated before the failure go with it.
		s.logger.Error("import rolled back", "account", account.Name, "error", err)
		return &Outcome{Errors: 1}, fmt.Errorf("import transaction failed: %w", err)
	}

	s.logger.Info("import committed",
		"account", account.Name,
		"imported", outcome.Imported,
		"skipped", outcome.Skipped)
	return outcome, nil
}
