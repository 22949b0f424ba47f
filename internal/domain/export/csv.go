// Package export writes PDF-derived records to the statement CSV schema and
// reads them back. The schema is bit-exact: UTF-8 with a leading BOM, a
// fixed header row, and two-decimal amount cells left empty when zero.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/hqdang/bankstmt/internal/domain/record"
	"github.com/hqdang/bankstmt/pkg/money"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const dateLayout = "02/01/2006"

// Row mirrors the output schema column for column.
type Row struct {
	Date          string `csv:"Date"`
	Remitter      string `csv:"Remitter"`
	RemitterBank  string `csv:"Remitter Bank"`
	Description   string `csv:"Description"`
	TransactionNo string `csv:"Transaction No"`
	Debit         string `csv:"Debit"`
	Credit        string `csv:"Credit"`
	Balance       string `csv:"Balance"`
}

// DefaultOutputPath swaps the .pdf extension for .csv.
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".csv"
}

// WriteFile renders records to path. Remitter columns stay empty: the token
// streams carry no remitter identity, only the smeared description.
func WriteFile(path string, recs []record.Transaction) error {
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		var balance int64
		if rec.HasBalance {
			balance = rec.BalanceMinor
		}
		rows = append(rows, Row{
			Date:          rec.Date.Format(dateLayout),
			Description:   rec.Description,
			TransactionNo: rec.Reference,
			Debit:         money.FormatFixedOrEmpty(rec.DebitMinor),
			Credit:        money.FormatFixedOrEmpty(rec.CreditMinor),
			Balance:       money.FormatFixedOrEmpty(balance),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}
	if err := gocsv.Marshal(&rows, f); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ReadFile parses a statement CSV back into canonical records, reversing
// WriteFile for the (date, debit, credit, balance) tuple.
func ReadFile(path string) ([]record.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = stripBOM(data)

	var rows []Row
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	recs := make([]record.Transaction, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(dateLayout, strings.TrimSpace(row.Date))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q: %w", i+2, row.Date, err)
		}
		rec := record.Transaction{
			Date:        date,
			Description: row.Description,
			Reference:   row.TransactionNo,
		}
		if rec.DebitMinor, err = parseCell(row.Debit); err != nil {
			return nil, fmt.Errorf("row %d: debit: %w", i+2, err)
		}
		if rec.CreditMinor, err = parseCell(row.Credit); err != nil {
			return nil, fmt.Errorf("row %d: credit: %w", i+2, err)
		}
		if strings.TrimSpace(row.Balance) != "" {
			if rec.BalanceMinor, err = money.ParseGrouped(row.Balance); err != nil {
				return nil, fmt.Errorf("row %d: balance: %w", i+2, err)
			}
			rec.HasBalance = true
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseCell(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return money.ParseGrouped(s)
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == utf8BOM[0] && data[1] == utf8BOM[1] && data[2] == utf8BOM[2] {
		return data[3:]
	}
	return data
}
