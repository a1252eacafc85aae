package parser

import (
	"strconv"
	"strings"
	"time"
)

// The source spreadsheets store wall-clock times in the Brazil civil calendar
// (UTC-3) with no zone marker, so numeric serial dates and date strings both
// need a fixed three-hour correction before they become instants.
const sourceUTCOffset = 3 * time.Hour

// excelEpoch is day zero of the spreadsheet serial-date scheme (1899-12-30,
// which absorbs the historical 1900 leap-year bug).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var stringLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseBusinessDate decodes the DATA_INICIO cell of a demand row. It accepts
// a native time.Time, a numeric spreadsheet serial (days since 1899-12-30),
// or a dd/mm/yyyy[ hh:mm[:ss]] string; numeric strings are treated as
// serials. Every shape normalizes to 03:00 UTC of the UTC-3 civil date, i.e.
// local midnight of the calendar day the demand was opened.
//
// Unrecognized shapes return nil: callers treat a missing creation date as
// unknown, not as an error.
func ParseBusinessDate(value any) *time.Time {
	switch v := value.(type) {
	case time.Time:
		return truncateToCivilDate(v.UTC())
	case *time.Time:
		if v == nil {
			return nil
		}
		return truncateToCivilDate(v.UTC())
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		for _, layout := range stringLayouts {
			if wall, err := time.Parse(layout, s); err == nil {
				return truncateToCivilDate(wall.Add(sourceUTCOffset))
			}
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(serial)
		}
		return nil
	default:
		return nil
	}
}

func fromSerial(serial float64) *time.Time {
	if serial <= 0 {
		return nil
	}
	wall := excelEpoch.Add(time.Duration(serial * float64(24*time.Hour)))
	return truncateToCivilDate(wall.Add(sourceUTCOffset))
}

// truncateToCivilDate re-expresses the instant's UTC-3 calendar day as
// 03:00 UTC, the representation of local midnight used across the flow.
func truncateToCivilDate(instant time.Time) *time.Time {
	civil := instant.Add(-sourceUTCOffset)
	midnight := time.Date(civil.Year(), civil.Month(), civil.Day(), 3, 0, 0, 0, time.UTC)
	return &midnight
}
