package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"ratehub/internal/adapters"
	"ratehub/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHistory_AppendIsIdempotent(t *testing.T) {
	h := NewHistory(&memHistoryStore{})
	ctx := context.Background()
	quotes := []domain.Quote{q("EUR", "USD", 1.08), q("USD", "EUR", 1/1.08)}

	added, err := h.Append(ctx, quotes, map[string]string{"exec_id": "1"})
	require.NoError(t, err)
	require.Equal(t, 2, added)

	added, err = h.Append(ctx, quotes, map[string]string{"exec_id": "2"})
	require.NoError(t, err)
	require.Zero(t, added)

	entries, err := h.Entries(ctx, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "1", entries[0].Meta["exec_id"])
}

func TestHistory_AppendDropsDuplicatesWithinCall(t *testing.T) {
	store := new(MockHistoryStore)
	h := NewHistory(store)

	store.On("AppendEntries", mock.Anything, mock.MatchedBy(func(entries []domain.HistoryEntry) bool {
		return len(entries) == 1 && entries[0].ID == "EUR_USD_2025-06-01T12:00:00Z"
	})).Return(1, nil).Once()

	added, err := h.Append(context.Background(), []domain.Quote{q("EUR", "USD", 1.08), q("EUR", "USD", 1.08)}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, added)
	store.AssertExpectations(t)
}

func TestHistory_AppendNothing(t *testing.T) {
	store := new(MockHistoryStore)
	h := NewHistory(store)

	added, err := h.Append(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Zero(t, added)
	store.AssertNotCalled(t, "AppendEntries", mock.Anything, mock.Anything)
}

func TestHistory_AppendStoreError(t *testing.T) {
	store := new(MockHistoryStore)
	store.On("AppendEntries", mock.Anything, mock.Anything).Return(0, errors.New("read-only file system")).Once()
	h := NewHistory(store)

	_, err := h.Append(context.Background(), []domain.Quote{q("EUR", "USD", 1.08)}, nil)
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
}

func TestHistory_EntriesFilterAndLimit(t *testing.T) {
	h := NewHistory(&memHistoryStore{})
	ctx := context.Background()

	for i := range 3 {
		at := testNow.Add(time.Duration(i) * time.Minute)
		_, err := h.Append(ctx, []domain.Quote{
			q("EUR", "USD", 1.08+float64(i)/100).WithObservedAt(at),
			q("BTC", "USD", 60000).WithObservedAt(at),
		}, nil)
		require.NoError(t, err)
	}

	eurusd := pair("EUR", "USD")
	entries, err := h.Entries(ctx, HistoryFilter{Pair: &eurusd, Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.InDelta(t, 1.09, entries[0].Quote.Rate, 1e-9)
	require.InDelta(t, 1.10, entries[1].Quote.Rate, 1e-9)
}

func TestHistory_EntriesCorruptStoreIsEmpty(t *testing.T) {
	store := new(MockHistoryStore)
	store.On("LoadEntries", mock.Anything).Return(nil, adapters.ErrStateCorrupt).Once()
	h := NewHistory(store)

	entries, err := h.Entries(context.Background(), HistoryFilter{})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestHistory_EntriesStoreError(t *testing.T) {
	store := new(MockHistoryStore)
	store.On("LoadEntries", mock.Anything).Return(nil, errors.New("timeout")).Once()
	h := NewHistory(store)

	_, err := h.Entries(context.Background(), HistoryFilter{})
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
}
