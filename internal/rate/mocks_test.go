package rate

import (
	"context"
	"sync"
	"time"

	"ratehub/internal/adapters"
	"ratehub/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- Testify mocks ---

type MockRateSource struct {
	mock.Mock
	name string
}

func (m *MockRateSource) Name() string { return m.name }

func (m *MockRateSource) Fetch(ctx context.Context) ([]domain.Quote, error) {
	args := m.Called(ctx)
	quotes, _ := args.Get(0).([]domain.Quote)
	return quotes, args.Error(1)
}

func newSource(name string) *MockRateSource { return &MockRateSource{name: name} }

type MockBatchStore struct{ mock.Mock }

func (m *MockBatchStore) LoadBatch(ctx context.Context) (domain.Batch, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).(domain.Batch)
	return b, args.Error(1)
}

func (m *MockBatchStore) SaveBatch(ctx context.Context, batch domain.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

type MockHistoryStore struct{ mock.Mock }

func (m *MockHistoryStore) AppendEntries(ctx context.Context, entries []domain.HistoryEntry) (int, error) {
	args := m.Called(ctx, entries)
	return args.Int(0), args.Error(1)
}

func (m *MockHistoryStore) LoadEntries(ctx context.Context) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]domain.HistoryEntry)
	return entries, args.Error(1)
}

type MockRefreshTrigger struct{ mock.Mock }

func (m *MockRefreshTrigger) Trigger(ctx context.Context, source string) (RefreshResult, error) {
	args := m.Called(ctx, source)
	res, _ := args.Get(0).(RefreshResult)
	return res, args.Error(1)
}

func (m *MockRefreshTrigger) TriggerAsync() { m.Called() }

type MockRefresher struct{ mock.Mock }

func (m *MockRefresher) Refresh(ctx context.Context, source string) (RefreshResult, error) {
	args := m.Called(ctx, source)
	res, _ := args.Get(0).(RefreshResult)
	return res, args.Error(1)
}

type MockResolvedRateCache struct{ mock.Mock }

func (m *MockResolvedRateCache) Get(pair domain.Pair, refreshedAt time.Time) (domain.ResolvedRate, bool) {
	args := m.Called(pair, refreshedAt)
	r, _ := args.Get(0).(domain.ResolvedRate)
	return r, args.Bool(1)
}

func (m *MockResolvedRateCache) Set(pair domain.Pair, refreshedAt time.Time, rate domain.ResolvedRate) {
	m.Called(pair, refreshedAt, rate)
}

// --- In-memory stores ---

type memBatchStore struct {
	mu    sync.Mutex
	batch *domain.Batch
	saves int
}

func (s *memBatchStore) LoadBatch(context.Context) (domain.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch == nil {
		return domain.Batch{}, adapters.ErrStateNotFound
	}
	return s.batch.Clone(), nil
}

func (s *memBatchStore) SaveBatch(_ context.Context, batch domain.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := batch.Clone()
	s.batch = &b
	s.saves++
	return nil
}

type memHistoryStore struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
	ids     map[string]struct{}
}

func (s *memHistoryStore) AppendEntries(_ context.Context, entries []domain.HistoryEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	added := 0
	for _, e := range entries {
		if _, ok := s.ids[e.ID]; ok {
			continue
		}
		s.ids[e.ID] = struct{}{}
		s.entries = append(s.entries, e)
		added++
	}
	return added, nil
}

func (s *memHistoryStore) LoadEntries(context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryEntry(nil), s.entries...), nil
}

// --- helpers ---

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func q(from, to string, rate float64) domain.Quote {
	return domain.Quote{
		Pair:       domain.NewPair(domain.CurrencyCode(from), domain.CurrencyCode(to)),
		Rate:       rate,
		ObservedAt: testNow,
		Source:     "test",
	}
}

func pair(from, to string) domain.Pair {
	return domain.NewPair(domain.CurrencyCode(from), domain.CurrencyCode(to))
}
