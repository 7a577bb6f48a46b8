package parser

import (
	"encoding/csv"
	"math"
	"strconv"
	"strings"
)

// columnSpec describes one column concept and the predicate that
// recognizes its header.
type columnSpec struct {
	concept  string
	match    func(header string) bool
	required bool
}

// exactMatch recognizes a header equal to name, case-insensitively.
func exactMatch(name string) func(string) bool {
	return func(header string) bool {
		return strings.EqualFold(strings.TrimSpace(header), name)
	}
}

// substringMatch recognizes a header containing frag, case-insensitively.
func substringMatch(frag string) func(string) bool {
	frag = strings.ToLower(frag)
	return func(header string) bool {
		return strings.Contains(strings.ToLower(header), frag)
	}
}

// resolveColumns evaluates a schema against the header row once,
// producing a concept -> column-index mapping (-1 for absent optional
// columns). ok is false when any required concept is missing.
func resolveColumns(header []string, schema []columnSpec) (map[string]int, bool) {
	indexes := make(map[string]int, len(schema))
	for _, spec := range schema {
		indexes[spec.concept] = -1
		for i, h := range header {
			if spec.match(h) {
				indexes[spec.concept] = i
				break
			}
		}
		if spec.required && indexes[spec.concept] < 0 {
			return indexes, false
		}
	}
	return indexes, true
}

// lenientFloat parses the numeric cell at idx. An absent column, a
// missing cell, or a malformed number yields the 0 default with
// ok=false, so callers can tell a genuine zero from a failed parse.
func lenientFloat(row []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(row) {
		return 0, false
	}
	value := strings.TrimSpace(strings.Trim(strings.TrimSpace(row[idx]), `"`))
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// readRecords splits delimited text into records, tolerating ragged
// rows and stray quotes.
func readRecords(text string) [][]string {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil
	}
	return records
}
