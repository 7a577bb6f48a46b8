package models

// Site is one configured coastal location. Forecast data is replaced
// wholesale on every refresh cycle, never merged.
type Site struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Lat       float64         `json:"lat"`
	Lng       float64         `json:"lng"`
	Threshold float64         `json:"threshold"`
	RiskClass [2]float64      `json:"risk_class"`
	Forecast  *ForecastSeries `json:"forecast,omitempty"`
}

// ShortID is the trailing segment of the site id, used in forecast
// asset names (e.g. "SN_TOGO" -> "TOGO").
func (s *Site) ShortID() string {
	for i := len(s.ID) - 1; i >= 0; i-- {
		if s.ID[i] == '_' {
			return s.ID[i+1:]
		}
	}
	return s.ID
}

// SiteRecord is one entry of the raw site-registry JSON, keyed by site id.
type SiteRecord struct {
	City      string    `json:"city"`
	LatCible  float64   `json:"lat_cible"`
	LonCible  float64   `json:"lon_cible"`
	Threshold float64   `json:"threshold"`
	RiskClass []float64 `json:"risk_class"`
}

// NewSite transforms a raw registry record into a Site. A registry entry
// with fewer than two risk-class bounds falls back to the site threshold
// for both, so every boundary comparison stays defined.
func NewSite(id string, rec SiteRecord) *Site {
	rc := [2]float64{rec.Threshold, rec.Threshold}
	if len(rec.RiskClass) >= 2 {
		rc[0] = rec.RiskClass[0]
		rc[1] = rec.RiskClass[1]
	}
	return &Site{
		ID:        id,
		Name:      rec.City,
		Lat:       rec.LatCible,
		Lng:       rec.LonCible,
		Threshold: rec.Threshold,
		RiskClass: rc,
	}
}

// DailyForecast is one day of the aggregated forecast.
type DailyForecast struct {
	Date          string    `json:"date"`
	FullDate      string    `json:"full_date"`
	MaxWaterLevel float64   `json:"max_water_level"`
	Risk          RiskLevel `json:"risk"`
}

// ForecastSeries is the chart-ready forecast for one site: daily
// summaries over the forecast horizon plus an hourly water-level trace.
type ForecastSeries struct {
	Daily  []DailyForecast `json:"daily"`
	Hourly []float64       `json:"hourly"`
}

// EmptyForecast is the degraded result substituted when a site's
// forecast asset is missing or unreadable.
func EmptyForecast() *ForecastSeries {
	return &ForecastSeries{Daily: []DailyForecast{}, Hourly: []float64{}}
}
