package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// StaffView selects how excluded pseudo-staff appear in the staff report.
type StaffView string

const (
	// StaffViewAudit lists every group; excluded ones carry zero compensation.
	StaffViewAudit StaffView = "audit"
	// StaffViewPayroll drops excluded groups before pagination.
	StaffViewPayroll StaffView = "payroll"
)

func ParseStaffView(value string) (StaffView, error) {
	switch StaffView(strings.ToLower(strings.TrimSpace(value))) {
	case "", StaffViewAudit:
		return StaffViewAudit, nil
	case StaffViewPayroll:
		return StaffViewPayroll, nil
	default:
		return "", newValidationError("view", fmt.Sprintf("must be %q or %q", StaffViewAudit, StaffViewPayroll))
	}
}

type StaffRow struct {
	StaffName             string
	OrdersCount           int64
	RevenueTotal          decimal.Decimal
	CompensationBaseTotal decimal.Decimal
	BaseCompensation      decimal.Decimal
	BonusCompensation     decimal.Decimal
	TotalCompensation     decimal.Decimal
	// EffectivePercent is zero when the group mixes percentages.
	EffectivePercent decimal.Decimal
	// BonusPercent is zero for excluded groups.
	BonusPercent decimal.Decimal
	MixedPercent bool
	IsExcluded   bool
}

type staffAccumulator struct {
	row        StaffRow
	percentSet bool
}

// AggregateStaff groups rows by normalized staff name and sorts the groups by
// revenue, keeping first-seen order for ties.
func AggregateStaff(rows []ClassifiedOrder, view StaffView) []StaffRow {
	groups := make(map[string]*staffAccumulator)
	order := make([]string, 0)
	for _, row := range rows {
		acc := groups[row.StaffKey]
		if acc == nil {
			acc = &staffAccumulator{row: StaffRow{StaffName: row.StaffDisplayName, BonusPercent: row.BonusPercent}}
			groups[row.StaffKey] = acc
			order = append(order, row.StaffKey)
		}
		acc.row.OrdersCount++
		acc.row.RevenueTotal = acc.row.RevenueTotal.Add(row.Revenue)
		acc.row.CompensationBaseTotal = acc.row.CompensationBaseTotal.Add(row.CompensationBase)
		acc.row.BaseCompensation = acc.row.BaseCompensation.Add(row.BaseCompensation)
		acc.row.BonusCompensation = acc.row.BonusCompensation.Add(row.BonusCompensation)
		acc.row.TotalCompensation = acc.row.TotalCompensation.Add(row.TotalCompensation)
		if row.IsExcluded {
			acc.row.IsExcluded = true
		}

		switch {
		case !acc.percentSet:
			acc.row.EffectivePercent = row.EffectivePercent
			acc.percentSet = true
		case !acc.row.MixedPercent && !acc.row.EffectivePercent.Equal(row.EffectivePercent):
			acc.row.MixedPercent = true
		}
	}

	out := make([]StaffRow, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		if view == StaffViewPayroll && acc.row.IsExcluded {
			continue
		}
		if acc.row.MixedPercent {
			acc.row.EffectivePercent = decimal.Zero
		}
		if acc.row.IsExcluded {
			acc.row.BonusPercent = decimal.Zero
		}
		out = append(out, acc.row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RevenueTotal.GreaterThan(out[j].RevenueTotal)
	})
	return out
}
