// pkg/transform/dates.go
package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/revent-data/report-merger/pkg/model"
)

// dateLayouts are probed in order until one parses. The extracts carry a mix
// of ISO dates, SQL timestamps, and regional d/m/y spellings.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z",      // ISO8601 UTC
	"2006-01-02T15:04:05-07:00", // ISO8601 with timezone
	"2006-01-02 15:04:05",       // SQL timestamp
	"2006-01-02",                // Date only
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"01-02-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"20060102",
}

// excelEpoch is the day-zero of Excel's 1900 date system. Serial 1 is
// 1900-01-01; the 1899-12-30 base absorbs Excel's phantom 1900 leap day.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a raw cell value as a date, trying each accepted layout
// in order and falling back to Excel serial day numbers
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	// Excel represents dates as fractional day counts
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 {
		days := int(serial)
		frac := serial - float64(days)
		t := excelEpoch.AddDate(0, 0, days)
		return t.Add(time.Duration(frac * 24 * float64(time.Hour))), nil
	}

	return time.Time{}, fmt.Errorf("cannot parse %q as date", v)
}

// DateComponent returns the requested component of a parsed date
func DateComponent(t time.Time, component model.DateComponent) int {
	switch component {
	case model.ComponentDay:
		return t.Day()
	case model.ComponentMonth:
		return int(t.Month())
	case model.ComponentYear:
		return t.Year()
	default:
		return 0
	}
}
