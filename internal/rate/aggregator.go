package rate

import (
	"context"
	"fmt"
	"ratehub/internal/adapters"
	"ratehub/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxParallelFetches       = 4
	defaultPerRequestTimeout = 10 * time.Second
)

type SourceFailure struct {
	Source string
	Err    error
}

type RefreshResult struct {
	ExecID      string
	Written     int
	Sources     []string
	Failed      []SourceFailure
	LastRefresh time.Time
}

func (r RefreshResult) Message() string {
	if r.Written == 0 {
		return "refresh failed: no sources responded"
	}
	return fmt.Sprintf("updated %d currencies", r.Written)
}

// Aggregator runs one refresh cycle: fetch every selected source, merge the quotes
// and commit them to the cache and the history ledger.
type Aggregator struct {
	registry       *SourceRegistry
	cache          *Cache
	history        *History
	clock          clockwork.Clock
	requestTimeout time.Duration
	metrics        Metrics
}

type fetchOutcome struct {
	quotes []domain.Quote
	err    error
}

// Refresh fetches the sources selected by name (all of them for "") and writes the merged batch.
// A failing source is skipped. When nothing was fetched the current batch stays untouched.
func (a *Aggregator) Refresh(ctx context.Context, source string) (RefreshResult, error) {
	started := a.clock.Now()
	result := RefreshResult{ExecID: uuid.NewString()}
	log := logrus.WithField("exec_id", result.ExecID)

	// STEP 1: picking sources, in precedence order
	sources, err := a.registry.Select(source)
	if err != nil {
		return result, err
	}

	// STEP 2: fetching all of them in parallel, each one bounded by its own timeout.
	// Outcomes are kept by index so the merge below follows precedence, not completion order.
	outcomes := a.fetchAll(ctx, sources)

	// STEP 3: merging. Later sources overwrite earlier ones for the same pair
	merged := make([]domain.Quote, 0, 64)
	for i, src := range sources {
		out := outcomes[i]
		if out.err != nil {
			log.WithError(out.err).Warnf("Source '%s' failed, skipping it this time", src.Name())
			result.Failed = append(result.Failed, SourceFailure{Source: src.Name(), Err: out.err})
			continue
		}
		result.Sources = append(result.Sources, src.Name())
		for _, q := range out.quotes {
			if !domain.ValidRate(q.Rate) {
				continue
			}
			merged = append(merged, q)
		}
	}

	if len(merged) == 0 {
		log.Warn("No quotes were fetched, keeping the previous rates")
		a.metrics.ObserveRefresh(OutcomeEmpty, a.clock.Since(started))
		return result, nil
	}

	// STEP 4: one timestamp for the whole cycle, so every quote satisfies observed_at <= last_refresh
	at := a.clock.Now().UTC().Truncate(time.Microsecond)
	batch := domain.NewBatch(merged, at)

	// STEP 5: recording the ledger first, then committing the cache.
	// The batch only moves once its quotes are in the history.
	added, err := a.history.Append(ctx, batch.SortedQuotes(), map[string]string{"exec_id": result.ExecID})
	if err != nil {
		a.metrics.ObserveRefresh(OutcomeFailed, a.clock.Since(started))
		return result, err
	}
	if err = a.cache.Replace(ctx, batch); err != nil {
		a.metrics.ObserveRefresh(OutcomeFailed, a.clock.Since(started))
		return result, err
	}
	result.Written = batch.Len()
	result.LastRefresh = at
	a.metrics.SetCachedPairs(batch.Len(), at)

	log.WithFields(logrus.Fields{
		"written": result.Written,
		"history": added,
		"sources": result.Sources,
	}).Info("Rates were refreshed")
	a.metrics.ObserveRefresh(OutcomeUpdated, a.clock.Since(started))
	return result, nil
}

func (a *Aggregator) fetchAll(ctx context.Context, sources []adapters.RateSource) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(sources))

	var g errgroup.Group
	g.SetLimit(maxParallelFetches)
	for i, src := range sources {
		g.Go(func() error {
			outcomes[i] = a.fetchOne(ctx, src)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (a *Aggregator) fetchOne(ctx context.Context, src adapters.RateSource) (out fetchOutcome) {
	reqCtx, cancel := context.WithTimeout(ctx, a.requestTimeout)
	defer cancel()

	started := a.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			out = fetchOutcome{err: &domain.SourceError{Source: src.Name(), Reason: fmt.Sprintf("panic: %v", r)}}
		}
		a.metrics.ObserveSourceFetch(src.Name(), out.err, len(out.quotes), a.clock.Since(started))
	}()

	quotes, err := src.Fetch(reqCtx)
	if err != nil {
		return fetchOutcome{err: err}
	}
	return fetchOutcome{quotes: quotes}
}

func NewAggregator(registry *SourceRegistry, cache *Cache, history *History, clock clockwork.Clock, requestTimeout time.Duration, metrics Metrics) *Aggregator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultPerRequestTimeout
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Aggregator{
		registry:       registry,
		cache:          cache,
		history:        history,
		clock:          clock,
		requestTimeout: requestTimeout,
		metrics:        metrics,
	}
}
