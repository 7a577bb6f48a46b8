package models

// HistoricalEvent is one extreme-water-level event from a site's event
// catalog. Components holds [tide, surge, runup] in meters; surge may be
// a residual (peak - tide - runup) when the source column was absent or
// inconsistent.
type HistoricalEvent struct {
	Date       string     `json:"date"`
	Components [3]float64 `json:"twl_components"`
	Peak       float64    `json:"twl_peak"`
	Hs         float64    `json:"hs"`
	DurationH  float64    `json:"dur_h"`
}

func (e HistoricalEvent) Tide() float64  { return e.Components[0] }
func (e HistoricalEvent) Surge() float64 { return e.Components[1] }
func (e HistoricalEvent) Runup() float64 { return e.Components[2] }

// EventCatalog is the per-site historical record, sorted by date
// descending. Immutable once built.
type EventCatalog struct {
	Count  int               `json:"count"`
	Events []HistoricalEvent `json:"events"`
}

// EmptyCatalog is the canonical degraded catalog used when the event
// asset is missing or unparseable.
func EmptyCatalog() *EventCatalog {
	return &EventCatalog{Count: 0, Events: []HistoricalEvent{}}
}

// JointProbabilityView projects the catalog as parallel sequences, one
// entry per event in catalog order.
type JointProbabilityView struct {
	Tide     []float64 `json:"tide"`
	Hs       []float64 `json:"hs"`
	Peak     []float64 `json:"twl_peak"`
	Dates    []string  `json:"dates"`
	Duration []float64 `json:"duration"`
}

// SeasonalView buckets event peaks by calendar month. All twelve months
// are present, unobserved ones with an empty sequence.
type SeasonalView struct {
	Months     []string             `json:"months"`
	MonthlyTWL map[string][]float64 `json:"monthly_twl"`
}

// InterannualView summarizes events per observed calendar year, years
// ascending.
type InterannualView struct {
	Years       []int     `json:"years"`
	MaxTWL      []float64 `json:"max_twl"`
	EventsCount []int     `json:"events_count"`
}

// ComponentView decomposes one event into its labeled components.
type ComponentView struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Peak   float64   `json:"twl_peak"`
	Date   string    `json:"date"`
	Found  bool      `json:"found"`
}
