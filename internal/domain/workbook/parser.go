// Package workbook parses multi-sheet spreadsheet ledgers into canonical
// transaction records. Sheets vary in header wording, language, and date
// encoding, so the parser discovers the header row and column roles per
// sheet instead of assuming a layout.
package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hqdang/bankstmt/internal/domain/record"
	"github.com/hqdang/bankstmt/pkg/money"
)

// ErrSourceNotFound means the input path does not resolve.
var ErrSourceNotFound = errors.New("source file not found")

// headerScanRows bounds the search for the header row.
const headerScanRows = 5

// Config carries the header vocabulary. Lists are configuration so new
// ledger dialects don't require code changes.
type Config struct {
	DateMarker     string
	DatePhrases    []string
	DescPhrases    []string
	AmountPhrases  []string
	TagPhrases     []string
	DateSystem1904 bool
}

func DefaultConfig() Config {
	return Config{
		DateMarker:    "ngày",
		DatePhrases:   []string{"ngày", "ngay", "date"},
		DescPhrases:   []string{"nội dung", "noi dung", "diễn giải", "description", "mô tả"},
		AmountPhrases: []string{"số tiền", "so tien", "amount", "thành tiền"},
		TagPhrases:    []string{"phân loại", "phan loai", "tag", "nhãn", "loại"},
	}
}

// SheetStats tallies what happened to one sheet's rows.
type SheetStats struct {
	Sheet          string
	RowsConsidered int
	RowsParsed     int
}

type columnRoles struct {
	date   int
	desc   int
	amount int
	tag    int
}

// Parser reads one workbook and emits records per sheet.
type Parser struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{cfg: cfg, logger: logger}
}

// ParseFile parses every sheet, concatenates their records, and sorts the
// combined list by date. Sheet-level problems degrade to warnings; only file
// access fails the run.
func (p *Parser) ParseFile(path string) ([]record.Transaction, []SheetStats, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	var all []record.Transaction
	var stats []SheetStats
	for _, sheet := range f.GetSheetList() {
		recs, st := p.parseSheet(f, sheet)
		all = append(all, recs...)
		stats = append(stats, st)
	}

	record.SortByDate(all)
	return all, stats, nil
}

// parseSheet handles one sheet. A sheet with no header row or missing
// required column roles is skipped with a warning, never fatally.
func (p *Parser) parseSheet(f *excelize.File, sheet string) ([]record.Transaction, SheetStats) {
	st := SheetStats{Sheet: sheet}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		p.logger.Warn("failed to read sheet", "sheet", sheet, "error", err)
		return nil, st
	}

	headerIdx := p.findHeaderRow(rows)
	if headerIdx < 0 {
		p.logger.Warn("no header row found, skipping sheet", "sheet", sheet, "scanned", headerScanRows)
		return nil, st
	}

	roles := p.mapColumns(rows[headerIdx])
	if roles.date < 0 || roles.amount < 0 {
		p.logger.Warn("sheet missing required columns, skipping",
			"sheet", sheet, "hasDate", roles.date >= 0, "hasAmount", roles.amount >= 0)
		return nil, st
	}

	var recs []record.Transaction
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		amountCell := strings.TrimSpace(cellAt(row, roles.amount))
		if amountCell == "" {
			continue
		}
		signed, err := money.ParseLoose(amountCell)
		if err != nil {
			continue
		}
		st.RowsConsidered++

		date, err := ResolveDate(ClassifyDateCell(cellAt(row, roles.date), sheet), p.cfg.DateSystem1904)
		if err != nil {
			p.logger.Debug("unresolvable date, skipping row", "sheet", sheet, "row", i+1, "error", err)
			continue
		}

		rec := record.Transaction{
			Date:        date,
			Description: strings.TrimSpace(cellAt(row, roles.desc)),
			Tag:         strings.TrimSpace(cellAt(row, roles.tag)),
			SourceSheet: sheet,
		}
		if signed >= 0 {
			rec.CreditMinor = signed
		} else {
			rec.DebitMinor = -signed
		}
		if err := rec.Validate(); err != nil {
			continue
		}
		recs = append(recs, rec)
		st.RowsParsed++
	}
	return recs, st
}

// findHeaderRow scans the first rows for a cell equal to the date marker.
func (p *Parser) findHeaderRow(rows [][]string) int {
	marker := strings.ToLower(strings.TrimSpace(p.cfg.DateMarker))
	limit := headerScanRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if strings.ToLower(strings.TrimSpace(cell)) == marker {
				return i
			}
		}
	}
	return -1
}

// mapColumns classifies each header cell into a role by equality or
// substring match against the phrase lists. First match wins per role.
func (p *Parser) mapColumns(header []string) columnRoles {
	roles := columnRoles{date: -1, desc: -1, amount: -1, tag: -1}
	for i, cell := range header {
		h := strings.ToLower(strings.TrimSpace(cell))
		if h == "" {
			continue
		}
		switch {
		case roles.date < 0 && matchesAny(h, p.cfg.DatePhrases):
			roles.date = i
		case roles.desc < 0 && matchesAny(h, p.cfg.DescPhrases):
			roles.desc = i
		case roles.amount < 0 && matchesAny(h, p.cfg.AmountPhrases):
			roles.amount = i
		case roles.tag < 0 && matchesAny(h, p.cfg.TagPhrases):
			roles.tag = i
		}
	}
	return roles
}

func matchesAny(header string, phrases []string) bool {
	for _, phrase := range phrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		if header == phrase || strings.Contains(header, phrase) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
