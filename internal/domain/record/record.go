// Package record defines the canonical transaction record both extraction
// paths produce and the reconciliation engine consumes. Records are
// transient: only their effect on the ledger persists.
package record

import (
	"fmt"
	"sort"
	"time"
)

// Direction of money movement relative to the account.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// Transaction is the format-agnostic pivot type. Amounts are non-negative
// minor units; exactly one of DebitMinor/CreditMinor is non-zero.
type Transaction struct {
	Date        time.Time
	Description string

	// Reference is the statement-assigned transaction identifier.
	// Present for PDF-sourced records, absent for spreadsheet ones.
	Reference string

	DebitMinor  int64
	CreditMinor int64

	// BalanceMinor is the running balance printed by the source document.
	// Advisory only; never used to set the ledger balance.
	BalanceMinor int64
	HasBalance   bool

	// Tag and SourceSheet carry spreadsheet provenance.
	Tag         string
	SourceSheet string
}

// Validate checks the debit-XOR-credit invariant.
func (t Transaction) Validate() error {
	if t.DebitMinor < 0 || t.CreditMinor < 0 {
		return fmt.Errorf("negative amount on record dated %s", t.Date.Format("2006-01-02"))
	}
	if t.DebitMinor == 0 && t.CreditMinor == 0 {
		return fmt.Errorf("record dated %s has neither debit nor credit", t.Date.Format("2006-01-02"))
	}
	if t.DebitMinor != 0 && t.CreditMinor != 0 {
		return fmt.Errorf("record dated %s has both debit and credit", t.Date.Format("2006-01-02"))
	}
	if t.Date.IsZero() {
		return fmt.Errorf("record has no date")
	}
	return nil
}

// Direction returns Credit when CreditMinor is set, Debit otherwise.
func (t Transaction) Direction() Direction {
	if t.CreditMinor != 0 {
		return Credit
	}
	return Debit
}

// AmountMinor returns the single non-zero magnitude.
func (t Transaction) AmountMinor() int64 {
	if t.CreditMinor != 0 {
		return t.CreditMinor
	}
	return t.DebitMinor
}

// SignedMinor returns the balance delta this record applies to an account:
// positive for credit, negative for debit.
func (t Transaction) SignedMinor() int64 {
	return t.CreditMinor - t.DebitMinor
}

// Date constructor helper: a calendar date with no time component, UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SortByDate orders records chronologically. The sort is stable so records
// within one day keep their source order.
func SortByDate(recs []Transaction) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date.Before(recs[j].Date)
	})
}
