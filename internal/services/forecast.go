package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/safecoastpro/coastwatch/internal/models"
	"github.com/safecoastpro/coastwatch/internal/observability"
	"github.com/safecoastpro/coastwatch/internal/parser"
	"go.uber.org/zap"
)

// ForecastService owns the site registry snapshot and the per-site
// forecast series. Each refresh replaces the snapshot wholesale; a
// generation counter discards refreshes superseded mid-flight.
type ForecastService struct {
	fetcher      Fetcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	registryFile string
	horizon      int

	generation atomic.Int64

	mu           sync.RWMutex
	sites        []*models.Site
	runDate      time.Time
	lastRefresh  time.Time
	successCount int
	failureCount int
}

func NewForecastService(fetcher Fetcher, registryFile string, horizon int, metrics *observability.Metrics, logger *zap.Logger) *ForecastService {
	return &ForecastService{
		fetcher:      fetcher,
		metrics:      metrics,
		logger:       logger,
		registryFile: registryFile,
		horizon:      horizon,
	}
}

func forecastAssetName(site *models.Site, runDate time.Time) string {
	return fmt.Sprintf("all_twl_data_%s_%s.csv", site.ShortID(), runDate.Format("20060102"))
}

func variabilityAssetName(siteID string) string {
	return fmt.Sprintf("Variability_Analysis_%s.json", siteID)
}

// Refresh reloads the site registry and fetches every site's forecast
// for runDate concurrently. One failing site degrades to an empty
// series; only a wholly unavailable registry is an error. Results of a
// refresh superseded by a newer one are discarded.
func (s *ForecastService) Refresh(ctx context.Context, runDate time.Time) error {
	gen := s.generation.Add(1)
	cycleID := uuid.NewString()
	start := time.Now()

	s.logger.Info("Starting forecast refresh",
		zap.String("cycle", cycleID),
		zap.Time("run_date", runDate))

	sites, err := s.loadSites(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var failures atomic.Int64

	for _, site := range sites {
		wg.Add(1)
		go func(site *models.Site) {
			defer wg.Done()

			if err := s.fetchSiteForecast(ctx, site, runDate); err != nil {
				failures.Add(1)
				site.Forecast = models.EmptyForecast()
				s.logger.Warn("Forecast unavailable for site",
					zap.String("cycle", cycleID),
					zap.String("site", site.ID),
					zap.Error(err))
			}
		}(site)
	}
	wg.Wait()

	failed := int(failures.Load())
	duration := time.Since(start)
	s.metrics.RefreshDuration.Observe(duration.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	// A refresh started after this one owns the state now; keeping our
	// results would resurrect stale data.
	if gen != s.generation.Load() {
		s.metrics.RefreshStale.Inc()
		s.logger.Info("Discarding superseded refresh",
			zap.String("cycle", cycleID),
			zap.Time("run_date", runDate))
		return nil
	}

	s.sites = sites
	s.runDate = runDate
	s.lastRefresh = time.Now()
	s.successCount += len(sites) - failed
	s.failureCount += failed
	s.metrics.SitesLoaded.Set(float64(len(sites)))

	s.logger.Info("Forecast refresh completed",
		zap.String("cycle", cycleID),
		zap.Int("sites", len(sites)),
		zap.Int("failed", failed),
		zap.Duration("duration", duration))
	return nil
}

func (s *ForecastService) loadSites(ctx context.Context) ([]*models.Site, error) {
	data, source, err := s.fetcher.Fetch(ctx, s.registryFile)
	if err != nil {
		s.metrics.AssetFetches.WithLabelValues("none", "error").Inc()
		return nil, fmt.Errorf("site registry unavailable: %w", err)
	}
	s.metrics.AssetFetches.WithLabelValues(source, "success").Inc()

	var records map[string]models.SiteRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("site registry unreadable: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("site registry %s contains no sites", s.registryFile)
	}

	sites := make([]*models.Site, 0, len(records))
	for id, rec := range records {
		sites = append(sites, models.NewSite(id, rec))
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	return sites, nil
}

func (s *ForecastService) fetchSiteForecast(ctx context.Context, site *models.Site, runDate time.Time) error {
	filename := forecastAssetName(site, runDate)

	data, source, err := s.fetcher.Fetch(ctx, filename)
	if err != nil {
		s.metrics.AssetFetches.WithLabelValues("none", "error").Inc()
		return err
	}
	s.metrics.AssetFetches.WithLabelValues(source, "success").Inc()

	site.Forecast = parser.ParseForecast(string(data), site, runDate, s.horizon, s.logger)
	return nil
}

// Sites returns the current snapshot.
func (s *ForecastService) Sites() []*models.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sites := make([]*models.Site, len(s.sites))
	copy(sites, s.sites)
	return sites
}

// Site looks up one site of the current snapshot by id.
func (s *ForecastService) Site(id string) (*models.Site, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, site := range s.sites {
		if site.ID == id {
			return site, true
		}
	}
	return nil, false
}

// Variability fetches the per-site variability-analysis asset and
// decodes it verbatim for the rendering layer.
func (s *ForecastService) Variability(ctx context.Context, siteID string) (*models.VariabilityAnalysis, error) {
	data, source, err := s.fetcher.Fetch(ctx, variabilityAssetName(siteID))
	if err != nil {
		s.metrics.AssetFetches.WithLabelValues("none", "error").Inc()
		return nil, err
	}
	s.metrics.AssetFetches.WithLabelValues(source, "success").Inc()

	var analysis models.VariabilityAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("variability analysis for %s unreadable: %w", siteID, err)
	}
	return &analysis, nil
}

func (s *ForecastService) RunDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runDate
}

func (s *ForecastService) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

func (s *ForecastService) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"sites_loaded":  len(s.sites),
		"run_date":      s.runDate.Format("2006-01-02"),
		"last_refresh":  s.lastRefresh,
		"success_count": s.successCount,
		"failure_count": s.failureCount,
	}
}
