// Package money holds the one currency contract used across the app.
//
// Amounts are whole rupiah (int64). Text is read in the id-ID convention:
// "." groups thousands and "," separates decimals, with an optional "Rp"
// prefix. Fractions are rounded half away from zero.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidAmount = errors.New("invalid amount")

var printer = message.NewPrinter(language.Indonesian)

// Parse reads an id-ID formatted amount, e.g. "Rp 1.500,50" -> 1501.
func Parse(s string) (int64, error) {
	t := strings.TrimSpace(s)
	if len(t) >= 2 && strings.EqualFold(t[:2], "rp") {
		t = strings.TrimSpace(t[2:])
	}
	if t == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	t = strings.ReplaceAll(t, ".", "")
	t = strings.ReplaceAll(t, ",", ".")
	d, err := decimal.NewFromString(t)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.Round(0).IntPart(), nil
}

// OrZero is Parse for display paths where a bad value counts as nothing.
func OrZero(s string) int64 {
	n, err := Parse(s)
	if err != nil {
		return 0
	}
	return n
}

// Digits keeps only the digits of raw input and reads them as an amount.
// Empty input yields 0; values past math.MaxInt64 saturate there.
func Digits(raw string) int64 {
	var n int64
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		d := int64(r - '0')
		if n > (math.MaxInt64-d)/10 {
			return math.MaxInt64
		}
		n = n*10 + d
	}
	return n
}

// IsDigits reports whether s is empty or made only of ASCII digits.
func IsDigits(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Format renders n as "Rp 1.500.000".
func Format(n int64) string {
	return printer.Sprintf("Rp %d", n)
}

// Amount decodes either a JSON number or an id-ID formatted string.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if b[0] == '"' {
		*a = Amount(OrZero(strings.Trim(string(b), `"`)))
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, b)
	}
	*a = Amount(d.Round(0).IntPart())
	return nil
}
