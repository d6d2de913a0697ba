package rate

import (
	"context"
	"errors"
	"fmt"
	"ratehub/internal/adapters"
	"ratehub/internal/domain"
	"time"
)

type RefreshTrigger interface {
	Trigger(ctx context.Context, source string) (RefreshResult, error)
	TriggerAsync()
}

// Service is the front for request handlers.
type Service struct {
	trigger   RefreshTrigger
	cache     *Cache
	history   *History
	valuation *ValuationEngine
	lookups   adapters.ResolvedRateCache
	catalog   *domain.Catalog
	validator *CurrencyValidator
	ttl       time.Duration
}

// Refresh runs a cycle now for source ("" for all sources).
func (s *Service) Refresh(ctx context.Context, source string) (RefreshResult, error) {
	return s.trigger.Trigger(ctx, source)
}

func (s *Service) ReadCache(ctx context.Context) CacheView {
	batch := s.cache.Read(ctx)
	return CacheView{Batch: batch, Fresh: s.cache.IsFresh(batch, s.ttl)}
}

// Value answers from the cached batch even when it is stale, and asks for a refresh in that case.
func (s *Service) Value(ctx context.Context, balances map[domain.CurrencyCode]float64, base domain.CurrencyCode) (Valuation, error) {
	v, err := s.valuation.Value(ctx, balances, base)
	if err != nil {
		return Valuation{}, err
	}
	if v.Stale {
		s.trigger.TriggerAsync()
	}
	return v, nil
}

// GetRate resolves from->to against the current batch, directly or through the reverse quote.
func (s *Service) GetRate(ctx context.Context, base, quote string) (RateView, error) {
	pair, err := s.validator.ValidateCodes(base, quote)
	if err != nil {
		return RateView{}, err
	}

	batch, err := s.cache.Snapshot(ctx)
	if err != nil {
		return RateView{}, err
	}
	resolved, ok := s.lookups.Get(pair, batch.LastRefresh)
	if !ok {
		resolved, err = batch.Resolve(pair.From, pair.To)
		if err != nil {
			var unavailable *domain.RateUnavailableError
			if errors.As(err, &unavailable) {
				return RateView{}, fmt.Errorf("%w: %s", domain.ErrRateNotFound, pair)
			}
			return RateView{}, err
		}
		s.lookups.Set(pair, batch.LastRefresh, resolved)
	}

	return RateView{
		Pair:        pair,
		Rate:        resolved.Rate,
		InverseRate: 1 / resolved.Rate,
		UpdatedAt:   resolved.Quote.ObservedAt,
		Source:      resolved.Quote.Source,
		Inverted:    resolved.Inverted,
	}, nil
}

func (s *Service) History(ctx context.Context, filter HistoryFilter) ([]domain.HistoryEntry, error) {
	return s.history.Entries(ctx, filter)
}

func (s *Service) Currencies() []domain.Currency {
	return s.catalog.All()
}

func (s *Service) SupportedCodes() []string {
	return s.validator.SupportedCodes()
}

func NewService(trigger RefreshTrigger, cache *Cache, history *History, valuation *ValuationEngine, lookups adapters.ResolvedRateCache, catalog *domain.Catalog, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultRefreshInterval
	}
	return &Service{
		trigger:   trigger,
		cache:     cache,
		history:   history,
		valuation: valuation,
		lookups:   lookups,
		catalog:   catalog,
		validator: NewValidator(catalog),
		ttl:       ttl,
	}
}
