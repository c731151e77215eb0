package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted spellings of workbook date cells, most
// specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/2006",
	"1/2/06",
}

// Float coerces a cell to a number. Invalid or empty cells become NaN, the
// explicit missing-value marker, never an error.
func Float(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// OptionalFloat coerces a cell to a number, with nil for absent or invalid
// values. Used for the override rate columns where absence is meaningful.
func OptionalFloat(cell string) *float64 {
	v := Float(cell)
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Date coerces a cell to a UTC day value. Unparseable cells become the zero
// time, which compares equal to no scenario date.
func Date(cell string) time.Time {
	s := strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}
