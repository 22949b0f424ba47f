package workbook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet date cells arrive in three encodings, so resolution is a
// tagged variant dispatched to three pure functions. Each tier that fails
// falls through to the next; total failure skips the row, never the sheet.

// DateSource is the tagged variant for a row's raw date cell.
type DateSource interface{ isDateSource() }

// BlankDate is an empty cell; the sheet name supplies the month.
type BlankDate struct{ SheetName string }

// SerialDate is a numeric cell holding a date-system serial number.
type SerialDate struct{ Serial float64 }

// TextDate is a free-form date string.
type TextDate struct{ Raw string }

func (BlankDate) isDateSource()  {}
func (SerialDate) isDateSource() {}
func (TextDate) isDateSource()   {}

// ClassifyDateCell maps a raw cell value to its DateSource variant.
func ClassifyDateCell(cell, sheetName string) DateSource {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return BlankDate{SheetName: sheetName}
	}
	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return SerialDate{Serial: serial}
	}
	return TextDate{Raw: trimmed}
}

// sheetNameRe pulls a month/year pair out of sheet names like "Tháng 5 2022"
// or "Thang 12-2023".
var sheetNameRe = regexp.MustCompile(`(?i)th[áa]ng\s*(\d{1,2})\D*(\d{4})`)

// fallback for sheet names that are just "5 2022" or "05/2022".
var bareMonthYearRe = regexp.MustCompile(`\b(\d{1,2})[\s/\-.]+(\d{4})\b`)

// DateFromSheetName synthesizes the first day of the month named by the
// sheet.
func DateFromSheetName(name string) (time.Time, error) {
	m := sheetNameRe.FindStringSubmatch(name)
	if m == nil {
		m = bareMonthYearRe.FindStringSubmatch(name)
	}
	if m == nil {
		return time.Time{}, fmt.Errorf("no month/year in sheet name %q", name)
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range in sheet name %q", month, name)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// DateFromSerial interprets an Excel date-system serial number.
func DateFromSerial(serial float64, use1904 bool) (time.Time, error) {
	t, err := excelize.ExcelDateToTime(serial, use1904)
	if err != nil {
		return time.Time{}, fmt.Errorf("serial %v: %w", serial, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

var textDateFormats = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"02.01.2006",
	"2/1/06",
	"02/01/06",
}

// DateFromText parses a free-form date string.
func DateFromText(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range textDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// ResolveDate runs the three-tier resolver over a classified source. A
// serial that fails still gets a chance as text; blank cells only have the
// sheet name to go on.
func ResolveDate(src DateSource, use1904 bool) (time.Time, error) {
	switch s := src.(type) {
	case BlankDate:
		return DateFromSheetName(s.SheetName)
	case SerialDate:
		if t, err := DateFromSerial(s.Serial, use1904); err == nil {
			return t, nil
		}
		return DateFromText(strconv.FormatFloat(s.Serial, 'f', -1, 64))
	case TextDate:
		return DateFromText(s.Raw)
	default:
		return time.Time{}, fmt.Errorf("unknown date source %T", src)
	}
}
