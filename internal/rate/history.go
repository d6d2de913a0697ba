package rate

import (
	"context"
	"errors"
	"ratehub/internal/adapters"
	"ratehub/internal/domain"

	"github.com/sirupsen/logrus"
)

// History is the append-only ledger of every quote written to the cache.
type History struct {
	store adapters.HistoryStore
}

type HistoryFilter struct {
	Pair  *domain.Pair
	Limit int
}

// Append records quotes once per (pair, observed_at) and returns how many entries were new.
func (h *History) Append(ctx context.Context, quotes []domain.Quote, meta map[string]string) (int, error) {
	entries := make([]domain.HistoryEntry, 0, len(quotes))
	seen := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		e := domain.NewHistoryEntry(q, meta)
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	added, err := h.store.AppendEntries(ctx, entries)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "append history", Err: err}
	}
	return added, nil
}

// Entries returns the ledger oldest first. Limit keeps the newest entries.
func (h *History) Entries(ctx context.Context, filter HistoryFilter) ([]domain.HistoryEntry, error) {
	all, err := h.store.LoadEntries(ctx)
	if err != nil {
		if errors.Is(err, adapters.ErrStateNotFound) || errors.Is(err, adapters.ErrStateCorrupt) {
			logrus.Warnf("History is unavailable, returning empty: %v", err)
			return []domain.HistoryEntry{}, nil
		}
		return nil, &domain.PersistenceError{Op: "load history", Err: err}
	}

	out := make([]domain.HistoryEntry, 0, len(all))
	for _, e := range all {
		if filter.Pair != nil && e.Quote.Pair != *filter.Pair {
			continue
		}
		out = append(out, e)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[len(out)-filter.Limit:]
	}
	return out, nil
}

func NewHistory(store adapters.HistoryStore) *History {
	return &History{store: store}
}
