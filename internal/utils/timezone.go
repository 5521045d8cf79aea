package utils

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

func LoadLocation(tz string) *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(tz))
	if err != nil {
		return time.UTC
	}
	return loc
}

// Period presets understood by PresetRange.
const (
	PeriodToday     = "today"
	PeriodYesterday = "yesterday"
	PeriodWeek      = "7d"
	PeriodMonth     = "30d"
)

// PresetRange returns the inclusive day range of a preset ending on the
// calendar day of now. Week and month windows include today.
func PresetRange(preset string, now time.Time) (string, string, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := day.Format(dayLayout)
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", PeriodToday:
		return today, today, nil
	case PeriodYesterday:
		yesterday := day.AddDate(0, 0, -1).Format(dayLayout)
		return yesterday, yesterday, nil
	case PeriodWeek:
		return day.AddDate(0, 0, -6).Format(dayLayout), today, nil
	case PeriodMonth:
		return day.AddDate(0, 0, -29).Format(dayLayout), today, nil
	default:
		return "", "", fmt.Errorf("unknown period %q (use today, yesterday, 7d or 30d)", preset)
	}
}
