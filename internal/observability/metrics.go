package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the forecast pipeline.
type Metrics struct {
	AssetFetches *prometheus.CounterVec // labels: source={remote,local}, outcome={success,error}
	CatalogCache *prometheus.CounterVec // labels: result={hit,miss}

	RefreshDuration prometheus.Histogram
	RefreshStale    prometheus.Counter
	SitesLoaded     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AssetFetches,
		m.CatalogCache,
		m.RefreshDuration,
		m.RefreshStale,
		m.SitesLoaded,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// tests can construct fresh instances without "already registered"
// panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coastwatch",
			Name:      "asset_fetches_total",
			Help:      "Data asset fetches by serving source and outcome.",
		}, []string{"source", "outcome"}),
		CatalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coastwatch",
			Name:      "event_catalog_cache_total",
			Help:      "Event catalog lookups by cache result.",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coastwatch",
			Name:      "forecast_refresh_duration_seconds",
			Help:      "Duration of a complete forecast refresh cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RefreshStale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coastwatch",
			Name:      "forecast_refresh_stale_total",
			Help:      "Refresh cycles discarded because a newer cycle started.",
		}),
		SitesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coastwatch",
			Name:      "sites_loaded",
			Help:      "Number of sites in the current registry snapshot.",
		}),
	}
}
