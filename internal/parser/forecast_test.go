package parser

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/safecoastpro/coastwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSite = &models.Site{
	ID:        "SN_TOGO",
	Name:      "Lomé",
	Threshold: 1.0,
	RiskClass: [2]float64{1.5, 2.0},
}

var runDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

// forecastCSV builds a 10-minute series with the given per-row values.
func forecastCSV(values []float64) string {
	var b strings.Builder
	b.WriteString("time,total_water_level\n")
	for i, v := range values {
		fmt.Fprintf(&b, "2026-03-10T%02d:%02d:00,%g\n", (i/6)%24, (i%6)*10, v)
	}
	return b.String()
}

func constantSeries(n int, v float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return values
}

func TestParseForecast_FullHorizon(t *testing.T) {
	values := constantSeries(SamplesPerDay*7, 0.8)
	series := ParseForecast(forecastCSV(values), testSite, runDate, 7, zap.NewNop())

	assert.Len(t, series.Daily, 7)
	assert.Len(t, series.Hourly, 168)
	assert.Equal(t, 24*len(series.Daily), len(series.Hourly))
}

func TestParseForecast_TruncatesShortTrailingDay(t *testing.T) {
	// Three full days plus 20 samples: below a quarter day, so the
	// fourth day is dropped rather than emitted degenerate.
	values := constantSeries(SamplesPerDay*3+20, 0.8)
	series := ParseForecast(forecastCSV(values), testSite, runDate, 7, zap.NewNop())

	assert.Len(t, series.Daily, 3)
}

func TestParseForecast_QuarterDayKept(t *testing.T) {
	values := constantSeries(SamplesPerDay+minSamplesPerDay, 0.8)
	series := ParseForecast(forecastCSV(values), testSite, runDate, 7, zap.NewNop())

	assert.Len(t, series.Daily, 2)
}

func TestParseForecast_DailyMaxAndRisk(t *testing.T) {
	values := constantSeries(SamplesPerDay*2, 0.5)
	values[10] = 1.23456  // day 0 peak, Warning band
	values[SamplesPerDay+3] = 2.4 // day 1 peak, Severe Flood

	series := ParseForecast(forecastCSV(values), testSite, runDate, 7, zap.NewNop())
	require.Len(t, series.Daily, 2)

	assert.Equal(t, 1.235, series.Daily[0].MaxWaterLevel)
	assert.Equal(t, models.RiskWarning, series.Daily[0].Risk)
	assert.Equal(t, "Mar 10", series.Daily[0].Date)
	assert.Equal(t, "2026-03-10", series.Daily[0].FullDate)

	assert.Equal(t, 2.4, series.Daily[1].MaxWaterLevel)
	assert.Equal(t, models.RiskSevereFlood, series.Daily[1].Risk)
	assert.Equal(t, "2026-03-11", series.Daily[1].FullDate)
}

func TestParseForecast_HourlyDecimation(t *testing.T) {
	values := constantSeries(SamplesPerDay, 0.5)
	for i := 0; i < len(values); i += SamplesPerHour {
		values[i] = float64(i) / 1000 // hourly samples carry the index
	}

	series := ParseForecast(forecastCSV(values), testSite, runDate, 7, zap.NewNop())
	require.Len(t, series.Hourly, 24)
	assert.Equal(t, 0.0, series.Hourly[0])
	assert.Equal(t, 0.006, series.Hourly[1])
	assert.Equal(t, 0.138, series.Hourly[23])
}

func TestParseForecast_DropsUnparseableRows(t *testing.T) {
	csv := "time,total_water_level\n" +
		"2026-03-10T00:00:00,0.5\n" +
		"2026-03-10T00:10:00,not-a-number\n" +
		"2026-03-10T00:20:00,0.7\n"

	series := ParseForecast(csv, testSite, runDate, 7, zap.NewNop())

	// Too few rows for a day, but the hourly trace shows the retained
	// rows are contiguous after the drop.
	assert.Empty(t, series.Daily)
	assert.Equal(t, []float64{0.5}, series.Hourly)
}

func TestParseForecast_HeaderCaseInsensitive(t *testing.T) {
	csv := "time,Total_Water_Level\n2026-03-10T00:00:00,0.5\n"
	series := ParseForecast(csv, testSite, runDate, 7, zap.NewNop())
	assert.Equal(t, []float64{0.5}, series.Hourly)
}

func TestParseForecast_BenignEmptyConditions(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty body", ""},
		{"header only", "time,total_water_level\n"},
		{"missing twl column", "time,tide\n2026-03-10T00:00:00,0.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := ParseForecast(tt.csv, testSite, runDate, 7, zap.NewNop())
			require.NotNil(t, series)
			assert.Empty(t, series.Daily)
			assert.Empty(t, series.Hourly)
		})
	}
}
