package services

import (
	"fmt"
	"time"
)

// FormatDateWithDay renders t in UTC as "1st January 2024, Monday".
func FormatDateWithDay(t time.Time) string {
	t = t.UTC()
	day := t.Day()
	return fmt.Sprintf("%d%s %s %d, %s", day, ordinalSuffix(day), t.Month(), t.Year(), t.Weekday())
}

func ordinalSuffix(day int) string {
	if n := day % 100; n >= 11 && n <= 20 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// StartOfDayUTC truncates t to midnight UTC.
func StartOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	hiringTypeLabels = map[string]string{"1": "Sales", "2": "IT", "3": "Non-Sales", "4": "Sales Support"}
	levelLabels      = map[string]string{"1": "Fresher", "2": "Experienced"}
)

// HiringTypeLabel names a hiring type code; unknown codes are returned as is.
func HiringTypeLabel(code string) string {
	if label, ok := hiringTypeLabels[code]; ok {
		return label
	}
	return code
}

func LevelLabel(code string) string {
	if label, ok := levelLabels[code]; ok {
		return label
	}
	return code
}
