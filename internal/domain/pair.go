package domain

import (
	"fmt"
	"strings"
)

const pairSeparator = "_"

// Pair is an ordered (From, To) tuple: one unit of From costs Rate units of To.
type Pair struct {
	From CurrencyCode
	To   CurrencyCode
}

func NewPair(from, to CurrencyCode) Pair {
	return Pair{From: from, To: to}
}

func (p Pair) Reversed() Pair {
	return Pair{
		From: p.To,
		To:   p.From,
	}
}

// Key returns the persisted form "FROM_TO".
func (p Pair) Key() string {
	return string(p.From) + pairSeparator + string(p.To)
}

func (p Pair) String() string { return p.Key() }

// ParsePairKey parses "FROM_TO" back into a Pair, validating both codes.
func ParsePairKey(key string) (Pair, error) {
	rawFrom, rawTo, ok := strings.Cut(key, pairSeparator)
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrInvalidPairKey, key)
	}
	from, err := ParseCurrencyCode(rawFrom)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q", ErrInvalidPairKey, key)
	}
	to, err := ParseCurrencyCode(rawTo)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q", ErrInvalidPairKey, key)
	}
	return Pair{From: from, To: to}, nil
}
