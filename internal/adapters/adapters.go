package adapters

import (
	"context"
	"ratehub/internal/domain"
	"time"
)

// RateSource fetches a set of quotes from one external provider.
type RateSource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Quote, error)
}

// BatchStore persists the current rate batch. LoadBatch returns ErrStateNotFound
// when nothing was saved yet.
type BatchStore interface {
	LoadBatch(ctx context.Context) (domain.Batch, error)
	SaveBatch(ctx context.Context, batch domain.Batch) error
}

// HistoryStore is the append-only quote ledger. AppendEntries skips ids that are
// already recorded and returns how many entries were added.
type HistoryStore interface {
	AppendEntries(ctx context.Context, entries []domain.HistoryEntry) (int, error)
	LoadEntries(ctx context.Context) ([]domain.HistoryEntry, error)
}

// ResolvedRateCache memoizes pair lookups for one batch, identified by its refresh time.
type ResolvedRateCache interface {
	Get(pair domain.Pair, refreshedAt time.Time) (domain.ResolvedRate, bool)
	Set(pair domain.Pair, refreshedAt time.Time, rate domain.ResolvedRate)
}
