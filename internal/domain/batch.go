package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Batch is the complete set of cached quotes plus the time of the refresh that produced it.
// A zero LastRefresh means the cache was never refreshed.
type Batch struct {
	Quotes      map[Pair]Quote
	LastRefresh time.Time
}

func EmptyBatch() Batch {
	return Batch{Quotes: map[Pair]Quote{}}
}

// NewBatch stamps every quote with the cycle time at and indexes them by pair.
// Later quotes for the same pair replace earlier ones.
func NewBatch(quotes []Quote, at time.Time) Batch {
	b := Batch{Quotes: make(map[Pair]Quote, len(quotes)), LastRefresh: at}
	for _, q := range quotes {
		b.Quotes[q.Pair] = q.WithObservedAt(at)
	}
	return b
}

func (b Batch) HasRefreshed() bool { return !b.LastRefresh.IsZero() }

func (b Batch) Len() int { return len(b.Quotes) }

func (b Batch) Lookup(pair Pair) (Quote, bool) {
	q, ok := b.Quotes[pair]
	return q, ok
}

// Pairs returns the batch pairs ordered by key.
func (b Batch) Pairs() []Pair {
	pairs := slices.Collect(maps.Keys(b.Quotes))
	slices.SortFunc(pairs, func(x, y Pair) int {
		switch {
		case x.Key() < y.Key():
			return -1
		case x.Key() > y.Key():
			return 1
		}
		return 0
	})
	return pairs
}

// SortedQuotes returns the quotes ordered by pair key.
func (b Batch) SortedQuotes() []Quote {
	pairs := b.Pairs()
	quotes := make([]Quote, 0, len(pairs))
	for _, p := range pairs {
		quotes = append(quotes, b.Quotes[p])
	}
	return quotes
}

func (b Batch) Clone() Batch {
	quotes := maps.Clone(b.Quotes)
	if quotes == nil {
		quotes = map[Pair]Quote{}
	}
	return Batch{Quotes: quotes, LastRefresh: b.LastRefresh}
}

// Validate checks that every quote is keyed by its own pair, has a usable rate
// and was observed no later than the batch refresh.
func (b Batch) Validate() error {
	for pair, q := range b.Quotes {
		if q.Pair != pair {
			return fmt.Errorf("quote for %s stored under %s", q.Pair, pair)
		}
		if !ValidRate(q.Rate) {
			return fmt.Errorf("quote %s: %w", pair, ErrNonPositiveRate)
		}
		if q.ObservedAt.After(b.LastRefresh) {
			return fmt.Errorf("quote %s observed at %s after last refresh %s", pair, q.ObservedAt, b.LastRefresh)
		}
	}
	return nil
}

// ResolvedRate is a rate for a pair found either directly or through the reverse quote.
type ResolvedRate struct {
	Pair     Pair
	Rate     float64
	Quote    Quote
	Inverted bool
}

// Resolve finds the rate for from->to: the direct quote first, then 1/r of the reverse quote.
// A reverse quote with a zero rate does not resolve.
func (b Batch) Resolve(from, to CurrencyCode) (ResolvedRate, error) {
	pair := NewPair(from, to)
	if from == to {
		return ResolvedRate{Pair: pair, Rate: 1}, nil
	}
	if q, ok := b.Quotes[pair]; ok && ValidRate(q.Rate) {
		return ResolvedRate{Pair: pair, Rate: q.Rate, Quote: q}, nil
	}
	if q, ok := b.Quotes[pair.Reversed()]; ok && q.Rate != 0 {
		if inv := 1 / q.Rate; ValidRate(inv) {
			return ResolvedRate{Pair: pair, Rate: inv, Quote: q, Inverted: true}, nil
		}
	}
	return ResolvedRate{}, &RateUnavailableError{Pair: pair}
}
