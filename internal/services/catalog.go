package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/safecoastpro/coastwatch/internal/models"
	"github.com/safecoastpro/coastwatch/internal/observability"
	"github.com/safecoastpro/coastwatch/internal/parser"
	"go.uber.org/zap"
)

// Fetcher retrieves a named data asset, reporting which source
// (remote release or local fallback) served it.
type Fetcher interface {
	Fetch(ctx context.Context, filename string) ([]byte, string, error)
}

// CatalogCache memoizes the parsed historical event catalog per site.
// A site's catalog is fetched and parsed once per process lifetime;
// failures are absorbed into the canonical empty catalog, which is
// cached like any other result. There is no invalidation path.
type CatalogCache struct {
	fetcher Fetcher
	metrics *observability.Metrics
	logger  *zap.Logger

	mu       sync.Mutex
	catalogs map[string]*models.EventCatalog
}

func NewCatalogCache(fetcher Fetcher, metrics *observability.Metrics, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{
		fetcher:  fetcher,
		metrics:  metrics,
		logger:   logger,
		catalogs: make(map[string]*models.EventCatalog),
	}
}

func eventAssetName(siteID string) string {
	return fmt.Sprintf("Xtrem_all_var_%s.csv", siteID)
}

// Events returns the site's event catalog, fetching it on first use.
// Subsequent calls return the cached catalog verbatim.
func (c *CatalogCache) Events(ctx context.Context, siteID string) *models.EventCatalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if catalog, ok := c.catalogs[siteID]; ok {
		c.metrics.CatalogCache.WithLabelValues("hit").Inc()
		return catalog
	}
	c.metrics.CatalogCache.WithLabelValues("miss").Inc()

	catalog := c.load(ctx, siteID)
	c.catalogs[siteID] = catalog
	return catalog
}

func (c *CatalogCache) load(ctx context.Context, siteID string) *models.EventCatalog {
	filename := eventAssetName(siteID)

	data, source, err := c.fetcher.Fetch(ctx, filename)
	if err != nil {
		c.metrics.AssetFetches.WithLabelValues("none", "error").Inc()
		c.logger.Warn("Event catalog unavailable, using empty catalog",
			zap.String("site", siteID),
			zap.Error(err))
		return models.EmptyCatalog()
	}
	c.metrics.AssetFetches.WithLabelValues(source, "success").Inc()

	events := parser.ParseEvents(string(data), c.logger)
	if events == nil {
		events = []models.HistoricalEvent{}
	}

	c.logger.Info("Event catalog loaded",
		zap.String("site", siteID),
		zap.String("source", source),
		zap.Int("events", len(events)))

	return &models.EventCatalog{Count: len(events), Events: events}
}

func (c *CatalogCache) Stats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]interface{}{
		"cached_sites": len(c.catalogs),
	}
}
