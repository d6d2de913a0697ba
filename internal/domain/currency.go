package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minCodeLen = 2
	maxCodeLen = 5
)

// CurrencyCode is an uppercase currency identifier such as "USD" or "BTC".
type CurrencyCode string

// ParseCurrencyCode accepts codes of 2 to 5 characters with no whitespace
// anywhere, surrounding whitespace included. The result is uppercased.
func ParseCurrencyCode(code string) (CurrencyCode, error) {
	n := utf8.RuneCountInString(code)
	if n < minCodeLen || n > maxCodeLen {
		return "", ErrInvalidCurrencyCode
	}
	if strings.IndexFunc(code, unicode.IsSpace) >= 0 {
		return "", ErrInvalidCurrencyCode
	}
	return CurrencyCode(strings.ToUpper(code)), nil
}

// MustCurrencyCode is ParseCurrencyCode for literals known to be valid.
func MustCurrencyCode(raw string) CurrencyCode {
	code, err := ParseCurrencyCode(raw)
	if err != nil {
		panic("invalid currency code literal: " + raw)
	}
	return code
}

func (c CurrencyCode) String() string { return string(c) }
