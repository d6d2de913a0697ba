package rate

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"ratehub/internal/domain"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidBalance = errors.New("balance must be a non-negative number")

type Contribution struct {
	Currency domain.CurrencyCode
	Amount   float64
	Rate     float64
	Value    float64
	Inverted bool
}

// Valuation is the total of a balance set in the base currency. Total is rounded to
// two decimals; RawTotal keeps the unrounded sum.
type Valuation struct {
	Base        domain.CurrencyCode
	Total       decimal.Decimal
	RawTotal    float64
	Breakdown   []Contribution
	LastRefresh time.Time
	Stale       bool
}

type ValuationEngine struct {
	cache *Cache
	ttl   time.Duration
}

// Value converts every balance into base using one snapshot of the cache. A currency
// with neither a direct nor a reverse quote fails the whole valuation.
func (e *ValuationEngine) Value(ctx context.Context, balances map[domain.CurrencyCode]float64, base domain.CurrencyCode) (Valuation, error) {
	batch, err := e.cache.Snapshot(ctx)
	if err != nil {
		return Valuation{}, err
	}

	codes := slices.Sorted(maps.Keys(balances))
	breakdown := make([]Contribution, 0, len(codes))
	var raw float64
	for _, code := range codes {
		amount := balances[code]
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return Valuation{}, fmt.Errorf("%w: %s", ErrInvalidBalance, code)
		}

		resolved, err := batch.Resolve(code, base)
		if err != nil {
			return Valuation{}, err
		}

		value := amount * resolved.Rate
		raw += value
		breakdown = append(breakdown, Contribution{
			Currency: code,
			Amount:   amount,
			Rate:     resolved.Rate,
			Value:    value,
			Inverted: resolved.Inverted,
		})
	}

	return Valuation{
		Base:        base,
		Total:       decimal.NewFromFloat(raw).Round(2),
		RawTotal:    raw,
		Breakdown:   breakdown,
		LastRefresh: batch.LastRefresh,
		Stale:       !e.cache.IsFresh(batch, e.ttl),
	}, nil
}

func NewValuationEngine(cache *Cache, ttl time.Duration) *ValuationEngine {
	if ttl <= 0 {
		ttl = defaultRefreshInterval
	}
	return &ValuationEngine{cache: cache, ttl: ttl}
}
