// Package money provides currency-safe parsing and rendering of monetary
// amounts using integer minor units. Statement documents print amounts as
// thousands-grouped decimals with two fraction digits; everything downstream
// of parsing works on int64 minor units.
package money

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	VND = "VND" // Vietnamese Dong
	USD = "USD" // US Dollar
	EUR = "EUR" // Euro
)

// ParseGrouped parses a thousands-grouped decimal string with two fraction
// digits ("1,234,567.89" or "-150.00") into signed minor units.
func ParseGrouped(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// ParseLoose parses an amount that may or may not carry grouping or fraction
// digits (spreadsheet cells print "-150000" as well as "1,500.50"). Returns
// signed minor units.
func ParseLoose(s string) (int64, error) {
	return ParseGrouped(s)
}

// FormatFixed renders minor units as a plain fixed two-decimal string with no
// grouping, e.g. 100050 -> "1000.50". Zero renders as "0.00".
func FormatFixed(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// FormatFixedOrEmpty renders like FormatFixed but maps zero to the empty
// string, matching the statement CSV convention of leaving unused debit or
// credit cells blank.
func FormatFixedOrEmpty(minor int64) string {
	if minor == 0 {
		return ""
	}
	return FormatFixed(minor)
}

// Display renders minor units with the currency's symbol and grouping for
// console summaries, e.g. Display(15000000, "VND"). This package stores
// hundredths regardless of currency, so the value is rescaled to the
// currency's own exponent (zero for VND) before rendering.
func Display(minor int64, currencyCode string) string {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		cur = money.GetCurrency(VND)
	}
	scaled := decimal.New(minor, -2).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(scaled, cur.Code).Display()
}

// ValidCurrency reports whether code is a known ISO-4217 currency code.
func ValidCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}
