package application

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	billing "theater-billing/internal/billing/domain"
	"theater-billing/internal/observability/metrics"
)

// CatalogSource loads a play catalog snapshot.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*billing.Catalog, error)
}

// CatalogCache serves an immutable catalog snapshot and swaps it on Reload.
// Builds already holding the previous snapshot are unaffected by a swap.
type CatalogCache struct {
	source   CatalogSource
	driver   string
	logger   *log.Logger
	current  atomic.Pointer[billing.Catalog]
	reloadMu sync.Mutex
}

// NewCatalogCache constructs a cache. The first snapshot is loaded lazily.
func NewCatalogCache(source CatalogSource, driver string, logger *log.Logger) (*CatalogCache, error) {
	if source == nil {
		return nil, errors.New("catalog cache: nil source")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogCache{source: source, driver: driver, logger: logger}, nil
}

// LoadCatalog returns the current snapshot, loading it on first use.
func (c *CatalogCache) LoadCatalog(ctx context.Context) (*billing.Catalog, error) {
	if snapshot := c.current.Load(); snapshot != nil {
		return snapshot, nil
	}
	return c.Reload(ctx)
}

// Reload fetches a fresh snapshot from the source and publishes it.
// On failure the previous snapshot stays in place.
func (c *CatalogCache) Reload(ctx context.Context) (*billing.Catalog, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	start := time.Now()
	snapshot, err := c.source.LoadCatalog(ctx)
	if err != nil {
		metrics.ObserveCatalogLoad(c.driver, metrics.ResultError, 0, time.Since(start))
		c.logger.Printf("catalog reload failed: driver=%s err=%v", c.driver, err)
		return nil, err
	}
	if snapshot == nil {
		metrics.ObserveCatalogLoad(c.driver, metrics.ResultError, 0, time.Since(start))
		return nil, billing.ErrNilCatalog
	}
	c.current.Store(snapshot)
	metrics.ObserveCatalogLoad(c.driver, metrics.ResultSuccess, snapshot.Len(), time.Since(start))
	c.logger.Printf("catalog loaded: driver=%s plays=%d", c.driver, snapshot.Len())
	return snapshot, nil
}
