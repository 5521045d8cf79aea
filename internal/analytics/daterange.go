package analytics

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateRange is an inclusive window of order_date calendar days.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewDateRange validates both bounds as YYYY-MM-DD calendar days.
func NewDateRange(from string, to string) (DateRange, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if err := validateDay("from", from); err != nil {
		return DateRange{}, err
	}
	if err := validateDay("to", to); err != nil {
		return DateRange{}, err
	}
	return DateRange{From: from, To: to}, nil
}

func validateDay(field string, value string) error {
	if value == "" {
		return newValidationError(field, "is required (format YYYY-MM-DD)")
	}
	if !ymdPattern.MatchString(value) {
		return newValidationError(field, "must use format YYYY-MM-DD")
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return newValidationError(field, "is not a valid calendar date")
	}
	return nil
}

// Contains compares lexically, which is exact for zero-padded YYYY-MM-DD days.
func (r DateRange) Contains(day string) bool {
	return day >= r.From && day <= r.To
}
