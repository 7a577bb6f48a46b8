package models

// VariabilityAnalysis mirrors the per-site variability-analysis JSON
// asset. The service only fetches and relays it; the rendering layer
// consumes the nested series verbatim.
type VariabilityAnalysis struct {
	SeriesVariance struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	} `json:"series_variance"`
	SeasonalVariance struct {
		Time  []string  `json:"time"`
		Total []float64 `json:"total"`
		SSH   []float64 `json:"ssh"`
		Runup []float64 `json:"runup"`
	} `json:"seasonal_variance"`
	TrendVariance struct {
		Time  []string  `json:"time"`
		Total []float64 `json:"total"`
		SSH   []float64 `json:"ssh"`
		Runup []float64 `json:"runup"`
	} `json:"trend_variance"`
}
