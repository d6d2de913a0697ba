package rate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ratehub/internal/adapters"
	"ratehub/internal/domain"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCache_Read_MissingStateIsEmpty(t *testing.T) {
	store := new(MockBatchStore)
	store.On("LoadBatch", mock.Anything).Return(domain.Batch{}, adapters.ErrStateNotFound).Once()
	c := NewCache(store, clockwork.NewFakeClockAt(testNow))

	b := c.Read(context.Background())
	require.Zero(t, b.Len())
	require.False(t, b.HasRefreshed())

	// loaded once, later reads are served from memory
	_ = c.Read(context.Background())
	store.AssertExpectations(t)
}

func TestCache_Read_CorruptStateIsEmpty(t *testing.T) {
	store := new(MockBatchStore)
	store.On("LoadBatch", mock.Anything).Return(domain.Batch{}, fmt.Errorf("rates.json: %w", adapters.ErrStateCorrupt)).Once()
	c := NewCache(store, clockwork.NewFakeClockAt(testNow))

	b := c.Read(context.Background())
	require.Zero(t, b.Len())
	store.AssertExpectations(t)
}

func TestCache_Read_RetriesAfterTransientError(t *testing.T) {
	persisted := domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.08)}, testNow)
	store := new(MockBatchStore)
	store.On("LoadBatch", mock.Anything).Return(domain.Batch{}, errors.New("connection refused")).Once()
	store.On("LoadBatch", mock.Anything).Return(persisted, nil).Once()
	c := NewCache(store, clockwork.NewFakeClockAt(testNow))

	require.Zero(t, c.Read(context.Background()).Len())
	require.Equal(t, 1, c.Read(context.Background()).Len())
	store.AssertExpectations(t)
}

func TestCache_Snapshot_ReportsStoreFailure(t *testing.T) {
	persisted := domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.08)}, testNow)
	store := new(MockBatchStore)
	store.On("LoadBatch", mock.Anything).Return(domain.Batch{}, errors.New("connection refused")).Once()
	store.On("LoadBatch", mock.Anything).Return(persisted, nil).Once()
	c := NewCache(store, clockwork.NewFakeClockAt(testNow))

	b, err := c.Snapshot(context.Background())
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "load rates", perr.Op)
	require.Zero(t, b.Len())

	b, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, persisted, b)
	store.AssertExpectations(t)
}

func TestCache_Snapshot_MissingStateIsNotAnError(t *testing.T) {
	c := NewCache(&memBatchStore{}, clockwork.NewFakeClockAt(testNow))

	b, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.False(t, b.HasRefreshed())
}

func TestCache_Read_InconsistentPersistedBatchIsEmpty(t *testing.T) {
	bad := domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.08)}, testNow)
	bad.LastRefresh = testNow.Add(-time.Hour)
	store := new(MockBatchStore)
	store.On("LoadBatch", mock.Anything).Return(bad, nil).Once()
	c := NewCache(store, clockwork.NewFakeClockAt(testNow))

	require.Zero(t, c.Read(context.Background()).Len())
}

func TestCache_ReplaceThenRead(t *testing.T) {
	store := &memBatchStore{}
	c := NewCache(store, clockwork.NewFakeClockAt(testNow))
	ctx := context.Background()

	batch := domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.08), q("BTC", "USD", 60000)}, testNow)
	require.NoError(t, c.Replace(ctx, batch))

	first := c.Read(ctx)
	second := c.Read(ctx)
	require.Equal(t, batch, first)
	require.Equal(t, first, second)
	require.Equal(t, 1, store.saves)

	// a fresh cache over the same store sees the persisted batch
	reloaded := NewCache(store, clockwork.NewFakeClockAt(testNow)).Read(ctx)
	require.Equal(t, batch, reloaded)
}

func TestCache_Read_ReturnsCopy(t *testing.T) {
	c := NewCache(&memBatchStore{}, clockwork.NewFakeClockAt(testNow))
	ctx := context.Background()
	require.NoError(t, c.Replace(ctx, domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.08)}, testNow)))

	b := c.Read(ctx)
	delete(b.Quotes, pair("EUR", "USD"))

	require.Equal(t, 1, c.Read(ctx).Len())
}

func TestCache_Replace_PersistenceFailureKeepsPreviousBatch(t *testing.T) {
	store := new(MockBatchStore)
	c := NewCache(store, clockwork.NewFakeClockAt(testNow))
	ctx := context.Background()

	old := domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.08)}, testNow)
	store.On("SaveBatch", mock.Anything, old).Return(nil).Once()
	require.NoError(t, c.Replace(ctx, old))

	next := domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.10)}, testNow.Add(time.Minute))
	store.On("SaveBatch", mock.Anything, next).Return(errors.New("disk full")).Once()

	err := c.Replace(ctx, next)
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, old, c.Read(ctx))
	store.AssertExpectations(t)
}

func TestCache_Replace_RejectsInvalidBatch(t *testing.T) {
	store := new(MockBatchStore)
	c := NewCache(store, clockwork.NewFakeClockAt(testNow))

	bad := domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.08)}, testNow)
	bad.LastRefresh = testNow.Add(-time.Second)

	require.Error(t, c.Replace(context.Background(), bad))
	store.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}

func TestCache_IsFresh(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	c := NewCache(&memBatchStore{}, clock)
	batch := domain.NewBatch([]domain.Quote{q("EUR", "USD", 1.08)}, testNow)

	require.False(t, c.IsFresh(domain.EmptyBatch(), time.Minute))
	require.True(t, c.IsFresh(batch, 5*time.Minute))

	clock.Advance(5 * time.Minute)
	require.False(t, c.IsFresh(batch, 5*time.Minute))
}
