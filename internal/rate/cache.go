package rate

import (
	"context"
	"errors"
	"fmt"
	"ratehub/internal/adapters"
	"ratehub/internal/domain"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Cache owns the current batch. Readers get a copy of the last committed batch;
// Replace persists first and swaps the in-memory batch only after the store accepted it.
type Cache struct {
	store adapters.BatchStore
	clock clockwork.Clock

	writeMu sync.Mutex // serializes Replace and the initial load

	mu     sync.RWMutex
	batch  domain.Batch
	loaded bool
}

// Read returns the committed batch. When the persisted state cannot be loaded it
// returns an empty batch; use Snapshot to see that failure.
func (c *Cache) Read(ctx context.Context) domain.Batch {
	batch, _ := c.Snapshot(ctx)
	return batch
}

// Snapshot is Read that reports a failed initial load as a *domain.PersistenceError
// instead of hiding it behind an empty batch.
func (c *Cache) Snapshot(ctx context.Context) (domain.Batch, error) {
	c.mu.RLock()
	if c.loaded {
		b := c.batch.Clone()
		c.mu.RUnlock()
		return b, nil
	}
	c.mu.RUnlock()

	c.writeMu.Lock()
	var err error
	if !c.loaded {
		err = c.loadLocked(ctx)
	}
	c.writeMu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.batch.Clone(), err
}

// loadLocked reads the persisted batch. Missing or unreadable state becomes an empty batch;
// other store errors leave the cache unloaded so the next read retries.
func (c *Cache) loadLocked(ctx context.Context) error {
	batch, err := c.store.LoadBatch(ctx)
	switch {
	case err == nil:
		if vErr := batch.Validate(); vErr != nil {
			logrus.Warnf("Persisted rates are inconsistent, starting empty: %v", vErr)
			batch = domain.EmptyBatch()
		}
	case errors.Is(err, adapters.ErrStateNotFound):
		batch = domain.EmptyBatch()
	case errors.Is(err, adapters.ErrStateCorrupt):
		logrus.Warnf("Persisted rates are unreadable, starting empty: %v", err)
		batch = domain.EmptyBatch()
	default:
		logrus.WithError(err).Error("Failed to load persisted rates")
		return &domain.PersistenceError{Op: "load rates", Err: err}
	}

	c.mu.Lock()
	c.batch = batch.Clone()
	c.loaded = true
	c.mu.Unlock()
	return nil
}

func (c *Cache) Replace(ctx context.Context, batch domain.Batch) error {
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("invalid batch: %w", err)
	}
	next := batch.Clone()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.store.SaveBatch(ctx, next); err != nil {
		return &domain.PersistenceError{Op: "save rates", Err: err}
	}

	c.mu.Lock()
	c.batch = next
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// IsFresh reports whether batch was refreshed less than ttl ago. A never refreshed batch is stale.
func (c *Cache) IsFresh(batch domain.Batch, ttl time.Duration) bool {
	if !batch.HasRefreshed() {
		return false
	}
	return c.clock.Since(batch.LastRefresh) < ttl
}

func NewCache(store adapters.BatchStore, clock clockwork.Clock) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{store: store, clock: clock, batch: domain.EmptyBatch()}
}
