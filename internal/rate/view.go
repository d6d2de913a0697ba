package rate

import (
	"ratehub/internal/domain"
	"time"
)

// RateView is a single resolved rate as presented to callers.
type RateView struct {
	Pair        domain.Pair
	Rate        float64
	InverseRate float64
	UpdatedAt   time.Time
	Source      string
	Inverted    bool
}

// CacheView is the current batch together with its freshness.
type CacheView struct {
	Batch domain.Batch
	Fresh bool
}
