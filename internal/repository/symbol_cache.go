package repository

import (
	"context"
	"sync"
	"time"

	"scanner-backend/internal/domain"
	"scanner-backend/internal/logger"
)

// SymbolCache is the time-bounded cache of the resolved symbol universe.
// It is the only cross-request shared mutable state: the snapshot slice is
// replaced atomically under the write lock and never mutated in place, so
// concurrent Resolve callers always see a consistent universe.
type SymbolCache struct {
	source domain.SymbolSource
	ttl    time.Duration

	mu        sync.RWMutex
	snapshot  []domain.StockSymbol
	fetchedAt time.Time

	refreshMu sync.Mutex // single-writer refresh
}

func NewSymbolCache(source domain.SymbolSource, ttl time.Duration) *SymbolCache {
	return &SymbolCache{source: source, ttl: ttl}
}

// Resolve returns the current universe snapshot, refreshing synchronously
// when no cache exists or the cached copy is older than the TTL. A failed
// refresh degrades to the stale snapshot when one exists.
func (c *SymbolCache) Resolve(ctx context.Context) ([]domain.StockSymbol, error) {
	c.mu.RLock()
	snapshot, fetchedAt := c.snapshot, c.fetchedAt
	c.mu.RUnlock()

	if snapshot != nil && time.Since(fetchedAt) <= c.ttl {
		return snapshot, nil
	}

	if err := c.Refresh(ctx); err != nil {
		if snapshot != nil {
			logger.Warn("symbol refresh failed, serving stale universe (age %s): %v",
				time.Since(fetchedAt).Round(time.Second), err)
			return snapshot, nil
		}
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, nil
}

// Refresh forces a reload from the symbol source and swaps the snapshot
// atomically. Only one refresh runs at a time; a caller that lost the race
// and finds a fresh snapshot does not reload again.
func (c *SymbolCache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.RLock()
	fresh := c.snapshot != nil && time.Since(c.fetchedAt) <= c.ttl
	c.mu.RUnlock()
	if fresh {
		return nil
	}

	symbols, err := c.source.LoadUniverse(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.snapshot = symbols
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	logger.Info("symbol universe refreshed: %d symbols", len(symbols))
	return nil
}

// ForceRefresh reloads unconditionally, for the refresh endpoint. Returns
// the new universe size.
func (c *SymbolCache) ForceRefresh(ctx context.Context) (int, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	symbols, err := c.source.LoadUniverse(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.snapshot = symbols
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return len(symbols), nil
}

// Age returns how old the current snapshot is, and false when none exists.
func (c *SymbolCache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return 0, false
	}
	return time.Since(c.fetchedAt), true
}
