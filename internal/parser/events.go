package parser

import (
	"sort"
	"strings"

	"github.com/safecoastpro/coastwatch/internal/models"
	"go.uber.org/zap"
)

// Component sums above this fraction of the peak mark the source surge
// value as inconsistent and trigger the residual correction.
const surgeConsistencyFactor = 1.05

var eventSchema = []columnSpec{
	{concept: "date", match: substringMatch("peak_date_time"), required: true},
	{concept: "peak", match: substringMatch("peak_value"), required: true},
	{concept: "tide", match: substringMatch("tide")},
	{concept: "surge", match: substringMatch("ssh")},
	{concept: "runup", match: substringMatch("runup")},
	{concept: "hs", match: substringMatch("significant")},
	{concept: "duration", match: substringMatch("duration_hours")},
}

// ParseEvents converts a historical event-catalog CSV into validated
// events, sorted by date descending. A header without the peak
// timestamp or value column yields an empty sequence; malformed rows
// are dropped or defaulted at row granularity.
func ParseEvents(csvText string, logger *zap.Logger) []models.HistoricalEvent {
	records := readRecords(csvText)
	if len(records) < 2 {
		return nil
	}

	indexes, ok := resolveColumns(records[0], eventSchema)
	if !ok {
		logger.Warn("Event catalog missing required columns")
		return nil
	}

	events := make([]models.HistoricalEvent, 0, len(records)-1)
	for _, row := range records[1:] {
		event, ok := parseEventRow(row, indexes)
		if ok {
			events = append(events, event)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})
	return events
}

func parseEventRow(row []string, indexes map[string]int) (models.HistoricalEvent, bool) {
	var event models.HistoricalEvent

	dateIdx := indexes["date"]
	if dateIdx >= len(row) {
		return event, false
	}
	event.Date = strings.Trim(strings.TrimSpace(row[dateIdx]), `"`)

	peak, _ := lenientFloat(row, indexes["peak"])
	tide, _ := lenientFloat(row, indexes["tide"])
	surge, surgeOK := lenientFloat(row, indexes["surge"])
	runup, _ := lenientFloat(row, indexes["runup"])

	// Recompute surge as the residual when the source value is absent,
	// non-positive, or the components overshoot the peak.
	if !surgeOK || surge <= 0 || tide+surge+runup > peak*surgeConsistencyFactor {
		surge = round3(peak - tide - runup)
	}

	if event.Date == "" || peak <= 0 || tide < 0 || surge < 0 || runup < 0 {
		return event, false
	}

	event.Peak = peak
	event.Components = [3]float64{tide, surge, runup}
	event.Hs, _ = lenientFloat(row, indexes["hs"])
	event.DurationH, _ = lenientFloat(row, indexes["duration"])
	return event, true
}
