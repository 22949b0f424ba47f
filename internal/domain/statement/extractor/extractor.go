// Package extractor pulls candidate tokens out of PDF statement text. PDF
// extraction loses tabular structure, so this stage only recovers three
// independent ordered streams (dates, references, amounts); re-pairing them
// is the aligner's job.
package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hqdang/bankstmt/pkg/money"
)

// Config tunes token recognition. Year bounds window out OCR noise and
// account numbers that happen to look like dates.
type Config struct {
	ReferencePrefix string
	MinRefDigits    int
	YearMin         int
	YearMax         int
	OpeningMarkers  []string
}

// DefaultConfig matches the statement dialects the pipeline currently sees.
func DefaultConfig() Config {
	return Config{
		ReferencePrefix: "FT",
		MinRefDigits:    11,
		YearMin:         2020,
		YearMax:         2030,
		OpeningMarkers:  []string{"opening balance", "số dư đầu"},
	}
}

// Reference is a statement transaction identifier plus the non-whitespace run
// that immediately follows it. The attached text usually holds a smeared,
// un-spaced description.
type Reference struct {
	ID       string
	Attached string
}

// Amount is one recognized monetary token, sign preserved, in minor units.
type Amount struct {
	Minor int64
	Raw   string
}

// Tokens holds the three ordered streams for one page or one whole document.
// AmountStart is an index offset into Amounts: when page 1 carries an
// opening-balance marker the first amount is reserved and pairing starts at
// 1. An offset rather than a removal keeps amount ordinals stable for
// debugging.
type Tokens struct {
	Dates       []time.Time
	References  []Reference
	Amounts     []Amount
	AmountStart int
}

// Extractor recognizes tokens in plain page text.
type Extractor struct {
	cfg    Config
	dateRe *regexp.Regexp
	refRe  *regexp.Regexp
	amtRe  *regexp.Regexp
}

func New(cfg Config) *Extractor {
	if cfg.ReferencePrefix == "" {
		cfg.ReferencePrefix = "FT"
	}
	if cfg.MinRefDigits <= 0 {
		cfg.MinRefDigits = 11
	}
	return &Extractor{
		cfg:    cfg,
		dateRe: regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`),
		refRe: regexp.MustCompile(
			regexp.QuoteMeta(cfg.ReferencePrefix) + `\d{` + strconv.Itoa(cfg.MinRefDigits) + `,}`),
		// Whitespace (or start of text) before the amount excludes digit
		// runs embedded in reference numbers; the trailing boundary
		// rejects a third fraction digit.
		amtRe: regexp.MustCompile(`(^|\s)(-?\d{1,3}(?:,\d{3})*\.\d{2})\b`),
	}
}

// ExtractPage tokenizes the plain text of one page. pageNum is 1-based; the
// opening-balance offset only ever applies to page 1. A page with no
// references is an empty contribution, not an error.
func (e *Extractor) ExtractPage(text string, pageNum int) Tokens {
	t := Tokens{
		Dates:      e.extractDates(text),
		References: e.extractReferences(text),
		Amounts:    e.extractAmounts(text),
	}
	if pageNum == 1 && e.hasOpeningMarker(text) && len(t.Amounts) > 0 {
		t.AmountStart = 1
	}
	return t
}

// extractDates returns DD/MM/YYYY matches inside the plausible year window,
// deduplicated in first-seen order. Malformed dates are silently excluded.
func (e *Extractor) extractDates(text string) []time.Time {
	var dates []time.Time
	seen := make(map[string]bool)
	for _, m := range e.dateRe.FindAllStringSubmatch(text, -1) {
		raw := m[0]
		if seen[raw] {
			continue
		}
		d, err := time.Parse("02/01/2006", raw)
		if err != nil {
			continue
		}
		if d.Year() < e.cfg.YearMin || d.Year() > e.cfg.YearMax {
			continue
		}
		seen[raw] = true
		dates = append(dates, d)
	}
	return dates
}

func (e *Extractor) extractReferences(text string) []Reference {
	var refs []Reference
	for _, loc := range e.refRe.FindAllStringIndex(text, -1) {
		ref := Reference{ID: text[loc[0]:loc[1]]}
		rest := text[loc[1]:]
		// Attached text is the next non-whitespace run after the reference.
		rest = strings.TrimLeft(rest, " \t\r\n")
		if i := strings.IndexFunc(rest, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\r' || r == '\n'
		}); i >= 0 {
			ref.Attached = rest[:i]
		} else {
			ref.Attached = rest
		}
		refs = append(refs, ref)
	}
	return refs
}

func (e *Extractor) extractAmounts(text string) []Amount {
	var amounts []Amount
	for _, m := range e.amtRe.FindAllStringSubmatch(text, -1) {
		raw := m[2]
		minor, err := money.ParseGrouped(raw)
		if err != nil {
			continue
		}
		amounts = append(amounts, Amount{Minor: minor, Raw: raw})
	}
	return amounts
}

func (e *Extractor) hasOpeningMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range e.cfg.OpeningMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// Merge appends page tokens onto an accumulated document stream. Dates are
// re-deduplicated across pages; the opening-balance offset survives only
// from the first page.
func Merge(doc, page Tokens) Tokens {
	seen := make(map[time.Time]bool, len(doc.Dates))
	for _, d := range doc.Dates {
		seen[d] = true
	}
	for _, d := range page.Dates {
		if !seen[d] {
			seen[d] = true
			doc.Dates = append(doc.Dates, d)
		}
	}
	if len(doc.Amounts) == 0 && page.AmountStart > 0 {
		doc.AmountStart = page.AmountStart
	}
	doc.References = append(doc.References, page.References...)
	doc.Amounts = append(doc.Amounts, page.Amounts...)
	return doc
}
