package parser

import (
	"time"

	"github.com/safecoastpro/coastwatch/internal/models"
	"go.uber.org/zap"
)

const (
	// Forecast assets carry one sample every 10 minutes.
	SamplesPerDay  = 144
	SamplesPerHour = 6

	// Days with fewer than a quarter of their samples truncate the
	// aggregation; no partial trailing day is emitted.
	minSamplesPerDay = SamplesPerDay / 4

	twlColumn = "total_water_level"
)

var forecastSchema = []columnSpec{
	{concept: "twl", match: exactMatch(twlColumn), required: true},
}

// ParseForecast converts a raw 10-minute TWL series into the chart-ready
// daily and hourly forecast for a site. runDate anchors day zero and
// horizon caps the number of emitted days. Missing headers or an empty
// body are a benign no-data condition yielding empty series.
func ParseForecast(csvText string, site *models.Site, runDate time.Time, horizon int, logger *zap.Logger) *models.ForecastSeries {
	series := models.EmptyForecast()

	records := readRecords(csvText)
	if len(records) < 2 {
		return series
	}

	indexes, ok := resolveColumns(records[0], forecastSchema)
	if !ok {
		logger.Warn("Forecast data missing water-level column",
			zap.String("site", site.ID))
		return series
	}
	twlIdx := indexes["twl"]

	// First column is the sample timestamp; rows are ordered, so the
	// row index alone positions a sample and unparseable rows drop out
	// without shifting the rest.
	values := make([]float64, 0, len(records)-1)
	for _, row := range records[1:] {
		if v, ok := lenientFloat(row, twlIdx); ok {
			values = append(values, v)
		}
	}

	for day := 0; day < horizon; day++ {
		start := day * SamplesPerDay
		end := start + SamplesPerDay
		if end > len(values) {
			end = len(values)
		}
		if end-start < minSamplesPerDay {
			break
		}

		maxTWL := 0.0
		for _, v := range values[start:end] {
			if v > maxTWL {
				maxTWL = v
			}
		}

		date := runDate.AddDate(0, 0, day)
		series.Daily = append(series.Daily, models.DailyForecast{
			Date:          date.Format("Jan 02"),
			FullDate:      date.Format("2006-01-02"),
			MaxWaterLevel: round3(maxTWL),
			Risk:          models.Classify(maxTWL, site.Threshold, site.RiskClass),
		})
	}

	// Hourly trace spans the full retained horizon, independent of the
	// daily truncation above.
	for i := 0; i < len(values); i += SamplesPerHour {
		series.Hourly = append(series.Hourly, round3(values[i]))
	}

	return series
}
