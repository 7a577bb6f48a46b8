package services

import (
	"context"
	"sort"
	"time"

	"github.com/safecoastpro/coastwatch/internal/models"
	"go.uber.org/zap"
)

var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var componentLabels = []string{"Tide", "SSH", "Wave Runup"}

// HistoryService derives the historical-analytics views from the cached
// event catalogs. All derivations are pure projections; the only I/O is
// the cache's first-use fetch.
type HistoryService struct {
	catalogs *CatalogCache
	logger   *zap.Logger
}

func NewHistoryService(catalogs *CatalogCache, logger *zap.Logger) *HistoryService {
	return &HistoryService{catalogs: catalogs, logger: logger}
}

func (s *HistoryService) JointProbability(ctx context.Context, siteID string) *models.JointProbabilityView {
	return deriveJointProbability(s.catalogs.Events(ctx, siteID))
}

func (s *HistoryService) Seasonal(ctx context.Context, siteID string) *models.SeasonalView {
	return deriveSeasonal(s.catalogs.Events(ctx, siteID))
}

func (s *HistoryService) Interannual(ctx context.Context, siteID string) *models.InterannualView {
	return deriveInterannual(s.catalogs.Events(ctx, siteID))
}

func (s *HistoryService) Components(ctx context.Context, siteID, eventID string) *models.ComponentView {
	view := deriveComponents(s.catalogs.Events(ctx, siteID), eventID)
	if !view.Found {
		s.logger.Warn("Event not found in catalog",
			zap.String("site", siteID),
			zap.String("event", eventID))
	}
	return view
}

// deriveJointProbability projects the catalog as parallel sequences in
// catalog order (date descending).
func deriveJointProbability(catalog *models.EventCatalog) *models.JointProbabilityView {
	view := &models.JointProbabilityView{
		Tide:     []float64{},
		Hs:       []float64{},
		Peak:     []float64{},
		Dates:    []string{},
		Duration: []float64{},
	}
	for _, event := range catalog.Events {
		view.Tide = append(view.Tide, event.Tide())
		view.Hs = append(view.Hs, event.Hs)
		view.Peak = append(view.Peak, event.Peak)
		view.Dates = append(view.Dates, event.Date)
		view.Duration = append(view.Duration, event.DurationH)
	}
	return view
}

// deriveSeasonal buckets event peaks into the twelve calendar months.
func deriveSeasonal(catalog *models.EventCatalog) *models.SeasonalView {
	view := &models.SeasonalView{
		Months:     monthNames,
		MonthlyTWL: make(map[string][]float64, len(monthNames)),
	}
	for _, name := range monthNames {
		view.MonthlyTWL[name] = []float64{}
	}

	for _, event := range catalog.Events {
		_, month, ok := eventYearMonth(event.Date)
		if !ok {
			continue
		}
		name := monthNames[month-1]
		view.MonthlyTWL[name] = append(view.MonthlyTWL[name], event.Peak)
	}
	return view
}

// deriveInterannual summarizes peak maxima and event counts per observed
// calendar year, years ascending.
func deriveInterannual(catalog *models.EventCatalog) *models.InterannualView {
	maxByYear := make(map[int]float64)
	countByYear := make(map[int]int)

	for _, event := range catalog.Events {
		year, _, ok := eventYearMonth(event.Date)
		if !ok {
			continue
		}
		if event.Peak > maxByYear[year] {
			maxByYear[year] = event.Peak
		}
		countByYear[year]++
	}

	view := &models.InterannualView{
		Years:       []int{},
		MaxTWL:      []float64{},
		EventsCount: []int{},
	}
	for year := range maxByYear {
		view.Years = append(view.Years, year)
	}
	sort.Ints(view.Years)
	for _, year := range view.Years {
		view.MaxTWL = append(view.MaxTWL, maxByYear[year])
		view.EventsCount = append(view.EventsCount, countByYear[year])
	}
	return view
}

// deriveComponents looks up one event by its date id and decomposes it
// into labeled components. An unknown id yields an empty-components
// result, rendered as a caller-side warning.
func deriveComponents(catalog *models.EventCatalog, eventID string) *models.ComponentView {
	for _, event := range catalog.Events {
		if event.Date == eventID {
			return &models.ComponentView{
				Labels: componentLabels,
				Values: []float64{event.Tide(), event.Surge(), event.Runup()},
				Peak:   event.Peak,
				Date:   event.Date,
				Found:  true,
			}
		}
	}
	return &models.ComponentView{
		Labels: componentLabels,
		Values: []float64{},
		Date:   eventID,
	}
}

// eventYearMonth extracts the calendar year and month from an event's
// date key (leading "YYYY-MM").
func eventYearMonth(date string) (int, time.Month, bool) {
	if len(date) < 7 {
		return 0, 0, false
	}
	t, err := time.Parse("2006-01", date[:7])
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}
