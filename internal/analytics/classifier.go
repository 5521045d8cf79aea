package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ClassifiedOrder carries the derived compensation and payment attributes of
// a single order. Amounts are never rounded here.
type ClassifiedOrder struct {
	Order Order

	StaffKey         string
	StaffDisplayName string
	IsExcluded       bool

	EffectivePercent  decimal.Decimal
	BonusPercent      decimal.Decimal
	CompensationBase  decimal.Decimal
	BaseCompensation  decimal.Decimal
	BonusCompensation decimal.Decimal
	TotalCompensation decimal.Decimal

	Revenue  decimal.Decimal
	Payments []PaymentPair
}

// Classify derives everything the aggregators need from one row. It reads no
// state besides the rules, so rows can be classified in any order.
func Classify(rules Rules, order Order) ClassifiedOrder {
	key, display := staffIdentity(order.StaffName)
	excluded := rules.IsExcludedStaff(key)

	percent := rules.DefaultPercent
	if order.StaffPercentage != nil && order.StaffPercentage.IsPositive() {
		percent = *order.StaffPercentage
	}
	if excluded {
		percent = decimal.Zero
	}

	base := CompensationBase(order)
	baseCompensation := base.Mul(percent).Div(hundred)
	bonusPercent := rules.BonusPercent
	if excluded {
		bonusPercent = decimal.Zero
	}
	bonus := base.Mul(bonusPercent).Div(hundred)

	return ClassifiedOrder{
		Order:             order,
		StaffKey:          key,
		StaffDisplayName:  display,
		IsExcluded:        excluded,
		EffectivePercent:  percent,
		BonusPercent:      bonusPercent,
		CompensationBase:  base,
		BaseCompensation:  baseCompensation,
		BonusCompensation: bonus,
		TotalCompensation: baseCompensation.Add(bonus),
		Revenue:           valueOrZero(order.FinalTotal),
		Payments:          NormalizePayments(order),
	}
}

// CompensationBase prefers total_price; rows that only stored final_total and
// service_amount fall back to their difference, floored at zero.
func CompensationBase(order Order) decimal.Decimal {
	if order.TotalPrice != nil && order.TotalPrice.IsPositive() {
		return *order.TotalPrice
	}
	base := valueOrZero(order.FinalTotal).Sub(valueOrZero(order.ServiceAmount))
	if base.IsNegative() {
		return decimal.Zero
	}
	return base
}

func staffIdentity(name *string) (string, string) {
	if name == nil {
		return UnknownName, UnknownName
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return UnknownName, UnknownName
	}
	return strings.ToLower(trimmed), trimmed
}

// selectOrders keeps paid rows inside the window, whatever the source sent.
func selectOrders(orders []Order, dateRange DateRange) []Order {
	selected := make([]Order, 0, len(orders))
	for _, order := range orders {
		if order.Status != StatusPaid || !dateRange.Contains(order.OrderDate) {
			continue
		}
		selected = append(selected, order)
	}
	return selected
}
