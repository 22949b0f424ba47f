package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/hqdang/bankstmt/internal/domain/record"
)

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it too.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements AccountStore and Ledger over Postgres.
type PGStore struct {
	db DB
}

func NewPGStore(db DB) *PGStore {
	return &PGStore{db: db}
}

const accountColumns = `id, name, balance_minor, currency_code`

// Resolve finds an account by UUID, exact name, or fuzzy name match, in that
// order. A fuzzy match that is not unambiguously best is an error rather
// than a guess.
func (s *PGStore) Resolve(ctx context.Context, selector string) (*Account, error) {
	if id, err := uuid.Parse(selector); err == nil {
		acc, err := s.scanAccount(s.db.QueryRow(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
		if err == nil || !errors.Is(err, pgx.ErrNoRows) {
			return acc, err
		}
	}

	acc, err := s.scanAccount(s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(name) = lower($1)`, selector))
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return s.resolveFuzzy(ctx, selector)
}

func (s *PGStore) resolveFuzzy(ctx context.Context, selector string) (*Account, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	var names []string
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ranks := fuzzy.RankFindFold(selector, names)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoAccount, selector)
	}
	sort.Sort(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		return nil, fmt.Errorf("account selector %q is ambiguous (%q vs %q)",
			selector, ranks[0].Target, ranks[1].Target)
	}

	matched := ids[ranks[0].OriginalIndex]
	return s.scanAccount(s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, matched))
}

func (s *PGStore) scanAccount(row pgx.Row) (*Account, error) {
	var acc Account
	if err := row.Scan(&acc.ID, &acc.Name, &acc.BalanceMinor, &acc.CurrencyCode); err != nil {
		return nil, err
	}
	return &acc, nil
}

// RunInTransaction opens one pgx transaction for the whole batch. The
// deferred rollback is a no-op after a successful commit, so the scope is
// released exactly once on every exit path.
func (s *PGStore) RunInTransaction(ctx context.Context, fn func(LedgerTx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgLedgerTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgLedgerTx struct {
	tx pgx.Tx
}

// Exists checks the composite natural key used for duplicate skipping.
func (l *pgLedgerTx) Exists(ctx context.Context, accountID uuid.UUID, rec record.Transaction) (bool, error) {
	var exists bool
	err := l.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE account_id = $1 AND date = $2 AND amount_minor = $3
			  AND direction = $4 AND description = $5
		)`,
		accountID, rec.Date, rec.AmountMinor(), string(rec.Direction()), rec.Description,
	).Scan(&exists)
	return exists, err
}

func (l *pgLedgerTx) Insert(ctx context.Context, accountID uuid.UUID, userID *uuid.UUID, rec record.Transaction) error {
	var reference, tag, sourceSheet *string
	if rec.Reference != "" {
		reference = &rec.Reference
	}
	if rec.Tag != "" {
		tag = &rec.Tag
	}
	if rec.SourceSheet != "" {
		sourceSheet = &rec.SourceSheet
	}
	var balance *int64
	if rec.HasBalance {
		balance = &rec.BalanceMinor
	}

	_, err := l.tx.Exec(ctx, `
		INSERT INTO transactions
			(account_id, user_id, date, description, reference,
			 amount_minor, direction, balance_minor, tag, source_sheet)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		accountID, userID, rec.Date, rec.Description, reference,
		rec.AmountMinor(), string(rec.Direction()), balance, tag, sourceSheet,
	)
	return err
}

func (l *pgLedgerTx) AdjustBalance(ctx context.Context, accountID uuid.UUID, deltaMinor int64) error {
	tag, err := l.tx.Exec(ctx,
		`UPDATE accounts SET balance_minor = balance_minor + $2 WHERE id = $1`,
		accountID, deltaMinor,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNoAccount, accountID)
	}
	return nil
}
