package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const UnknownName = "unknown"

var (
	DefaultPercent = decimal.NewFromInt(10)
	BonusPercent   = decimal.NewFromInt(7)
)

// DefaultExcludedStaff are the pseudo-staff handles used for delivery and
// takeaway orders.
var DefaultExcludedStaff = []string{"saboy", "saboiy", "delivery", "dostavka", "takeaway", "samovyvoz"}

// Rules parameterizes compensation for every report. It is built once and
// never mutated afterwards.
type Rules struct {
	DefaultPercent decimal.Decimal
	BonusPercent   decimal.Decimal
	excluded       map[string]struct{}
}

func NewRules(defaultPercent decimal.Decimal, bonusPercent decimal.Decimal, excludedStaff []string) Rules {
	excluded := make(map[string]struct{}, len(excludedStaff))
	for _, name := range excludedStaff {
		normalized := normalizeText(name)
		if normalized == "" {
			continue
		}
		excluded[normalized] = struct{}{}
	}
	return Rules{
		DefaultPercent: defaultPercent,
		BonusPercent:   bonusPercent,
		excluded:       excluded,
	}
}

func DefaultRules() Rules {
	return NewRules(DefaultPercent, BonusPercent, DefaultExcludedStaff)
}

// IsExcludedStaff expects an already normalized name.
func (r Rules) IsExcludedStaff(normalizedName string) bool {
	if normalizedName == "" || normalizedName == UnknownName {
		return false
	}
	_, ok := r.excluded[normalizedName]
	return ok
}

func (r Rules) ExcludedStaff() []string {
	out := make([]string, 0, len(r.excluded))
	for name := range r.excluded {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func normalizeText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
