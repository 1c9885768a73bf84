// Package core provides money parsing and handling utilities.
//
// This file contains the Amount type used by income and expense items, its
// parsing from free-text form input and its display formatting.
package core

import (
	"math"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the ISO code used to render amounts. Stored amounts carry
// no currency.
const DisplayCurrency = money.USD

// MaxAmount is the largest magnitude ParseAmount accepts.
var MaxAmount = decimal.New(1, 15)

// maxCents is the largest cent count go-money can hold.
var maxCents = decimal.NewFromInt(math.MaxInt64)

var (
	// 1,000 or 1,234,567.89
	groupedThousands = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	// 12,5 or 1,23
	decimalComma = regexp.MustCompile(`^\d+,\d{1,2}$`)
)

// Amount is an exact decimal value. It serializes as a bare JSON number so
// that persisted collections stay readable by anything that expects
// {"amount": 5000}.
type Amount struct {
	value decimal.Decimal
}

// NewAmount returns the amount for a whole or fractional number of units.
func NewAmount[T int | int64 | float64](v T) Amount {
	switch x := any(v).(type) {
	case int:
		return Amount{value: decimal.NewFromInt(int64(x))}
	case int64:
		return Amount{value: decimal.NewFromInt(x)}
	case float64:
		return Amount{value: decimal.NewFromFloat(x)}
	}
	return Amount{}
}

// ParseAmount converts form input into an Amount.
//
// It accepts what Display prints: an optional sign, an optional "$" and
// comma thousands separators. A single comma followed by one or two digits is
// read as a decimal comma instead. Negative and zero values are accepted;
// blank input, text that is not a number and magnitudes above MaxAmount are
// rejected.
//
// Examples:
//
//	ParseAmount("5000")      -> 5000, nil
//	ParseAmount("$5,000")    -> 5000, nil
//	ParseAmount("1,000.50")  -> 1000.5, nil
//	ParseAmount("12,5")      -> 12.5, nil
//	ParseAmount("-3")        -> -3, nil
//	ParseAmount("1,5000")    -> 0, ErrInvalidAmount
//	ParseAmount("abc")       -> 0, ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrEmptyAmount
	}
	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}
	s = strings.TrimPrefix(s, "$")

	switch {
	case !strings.Contains(s, ","):
	case decimalComma.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	case groupedThousands.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	default:
		return Amount{}, ErrInvalidAmount
	}
	if s == "" || strings.ContainsAny(s, "eE+-") {
		return Amount{}, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(sign + s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return Amount{}, ErrAmountTooLarge
	}
	return Amount{value: d}, nil
}

func (a Amount) Add(b Amount) Amount      { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount      { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Equal(b Amount) bool      { return a.value.Equal(b.value) }
func (a Amount) IsZero() bool             { return a.value.IsZero() }
func (a Amount) IsNegative() bool         { return a.value.IsNegative() }
func (a Amount) Decimal() decimal.Decimal { return a.value }

// String returns the plain decimal representation, e.g. "5000" or "12.5".
// It round-trips through ParseAmount and is what edit forms are prefilled with.
func (a Amount) String() string {
	return a.value.String()
}

// Display formats the amount for people: currency symbol, thousands
// separators, two decimals unless the value is whole ("$5,000", "$12.50",
// "-$1,500").
func (a Amount) Display() string {
	cents := a.value.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return displayWide(cents.Shift(-2))
	}
	s := money.New(cents.IntPart(), DisplayCurrency).Display()
	return strings.TrimSuffix(s, ".00")
}

// displayWide formats values whose cents overflow int64, such as totals of
// many large items, in the same style as Display.
func displayWide(v decimal.Decimal) string {
	whole, frac, _ := strings.Cut(v.Abs().StringFixed(2), ".")

	var b strings.Builder
	if v.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(money.GetCurrency(DisplayCurrency).Grapheme)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "00" {
		b.WriteString("." + frac)
	}
	return b.String()
}

// MarshalJSON encodes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal. A JSON null leaves
// the amount at zero, which is what an item persisted without the field decodes
// to.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		a.value = decimal.Zero
		return nil
	}
	return a.value.UnmarshalJSON(b)
}
