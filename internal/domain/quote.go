package domain

import (
	"math"
	"time"
)

// Quote is one observed rate for a pair. Quotes are values and are only ever superseded.
type Quote struct {
	Pair       Pair
	Rate       float64
	ObservedAt time.Time
	Source     string
}

// NewQuote rejects zero, negative and non-finite rates.
func NewQuote(pair Pair, rate float64, observedAt time.Time, source string) (Quote, error) {
	if !ValidRate(rate) {
		return Quote{}, ErrNonPositiveRate
	}
	return Quote{Pair: pair, Rate: rate, ObservedAt: observedAt, Source: source}, nil
}

// ValidRate reports whether rate is usable as a quote value.
func ValidRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// Inverse returns the reversed quote with rate 1/r. It refuses a zero rate.
func (q Quote) Inverse() (Quote, bool) {
	if q.Rate == 0 {
		return Quote{}, false
	}
	inv := 1 / q.Rate
	if !ValidRate(inv) {
		return Quote{}, false
	}
	return Quote{Pair: q.Pair.Reversed(), Rate: inv, ObservedAt: q.ObservedAt, Source: q.Source}, true
}

// WithObservedAt returns a copy stamped with at.
func (q Quote) WithObservedAt(at time.Time) Quote {
	q.ObservedAt = at
	return q
}

// HistoryEntry is a quote as recorded in the append-only ledger.
type HistoryEntry struct {
	ID    string
	Quote Quote
	Meta  map[string]string
}

// HistoryID derives the ledger identity of a quote: pair key plus observation time.
func HistoryID(q Quote) string {
	return q.Pair.Key() + pairSeparator + q.ObservedAt.UTC().Format(time.RFC3339Nano)
}

func NewHistoryEntry(q Quote, meta map[string]string) HistoryEntry {
	return HistoryEntry{ID: HistoryID(q), Quote: q, Meta: meta}
}
