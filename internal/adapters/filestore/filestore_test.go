package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ratehub/internal/adapters"
	"ratehub/internal/domain"

	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

func quote(from, to string, rate float64) domain.Quote {
	return domain.Quote{
		Pair:       domain.Pair{From: domain.CurrencyCode(from), To: domain.CurrencyCode(to)},
		Rate:       rate,
		ObservedAt: at,
		Source:     "test",
	}
}

func TestBatchStore_MissingFile(t *testing.T) {
	s := NewBatchStore(filepath.Join(t.TempDir(), "rates.json"))
	_, err := s.LoadBatch(context.Background())
	require.ErrorIs(t, err, adapters.ErrStateNotFound)
}

func TestBatchStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rates.json")
	s := NewBatchStore(path)
	ctx := context.Background()

	batch := domain.NewBatch([]domain.Quote{quote("EUR", "USD", 1.08), quote("USD", "EUR", 1/1.08)}, at)
	require.NoError(t, s.SaveBatch(ctx, batch))

	got, err := s.LoadBatch(ctx)
	require.NoError(t, err)
	require.Equal(t, batch, got)

	// no temp files left behind
	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestBatchStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewBatchStore(path).LoadBatch(context.Background())
	require.ErrorIs(t, err, adapters.ErrStateCorrupt)
}

func TestHistoryStore_AppendIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange_rates.json")
	s := NewHistoryStore(path)
	ctx := context.Background()

	e1 := domain.NewHistoryEntry(quote("EUR", "USD", 1.08), nil)
	e2 := domain.NewHistoryEntry(quote("USD", "EUR", 0.93), nil)

	added, err := s.AppendEntries(ctx, []domain.HistoryEntry{e1, e2, e1})
	require.NoError(t, err)
	require.Equal(t, 2, added)

	added, err = s.AppendEntries(ctx, []domain.HistoryEntry{e2, e1})
	require.NoError(t, err)
	require.Equal(t, 0, added)

	entries, err := s.LoadEntries(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.HistoryEntry{e1, e2}, entries)

	// a fresh store over the same file sees the same ledger and still dedupes
	reopened := NewHistoryStore(path)
	added, err = reopened.AppendEntries(ctx, []domain.HistoryEntry{e1})
	require.NoError(t, err)
	require.Equal(t, 0, added)
	entries, err = reopened.LoadEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestHistoryStore_MissingFileIsEmpty(t *testing.T) {
	entries, err := NewHistoryStore(filepath.Join(t.TempDir(), "h.json")).LoadEntries(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestHistoryStore_CorruptFileIsMovedAsideOnAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exchange_rates.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0o644))
	s := NewHistoryStore(path)
	ctx := context.Background()

	_, err := s.LoadEntries(ctx)
	require.ErrorIs(t, err, adapters.ErrStateCorrupt)

	added, err := s.AppendEntries(ctx, []domain.HistoryEntry{domain.NewHistoryEntry(quote("EUR", "USD", 1.08), nil)})
	require.NoError(t, err)
	require.Equal(t, 1, added)

	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	entries, err := s.LoadEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
