package analytics

import "github.com/shopspring/decimal"

type Summary struct {
	Range  DateRange
	Branch string

	OrdersCount                 int64
	RevenueTotal                decimal.Decimal
	AvgCheck                    decimal.Decimal
	CompensationBaseTotal       decimal.Decimal
	CompensationBaseSalaryTotal decimal.Decimal
	CompensationBonusTotal      decimal.Decimal
	CompensationTotal           decimal.Decimal
	Payments                    PaymentTotals

	// DroppedPayments counts payment pairs whose method is not cash, card or click.
	DroppedPayments int
}

// Summarize reduces classified rows into report totals.
func Summarize(rows []ClassifiedOrder) Summary {
	summary := Summary{}
	for _, row := range rows {
		summary.OrdersCount++
		summary.RevenueTotal = summary.RevenueTotal.Add(row.Revenue)
		summary.CompensationBaseTotal = summary.CompensationBaseTotal.Add(row.CompensationBase)
		summary.CompensationBaseSalaryTotal = summary.CompensationBaseSalaryTotal.Add(row.BaseCompensation)
		summary.CompensationBonusTotal = summary.CompensationBonusTotal.Add(row.BonusCompensation)
		summary.CompensationTotal = summary.CompensationTotal.Add(row.TotalCompensation)
		for _, pair := range row.Payments {
			if !summary.Payments.Add(pair) {
				summary.DroppedPayments++
			}
		}
	}
	summary.AvgCheck = averageValue(summary.RevenueTotal, summary.OrdersCount)
	return summary
}

func averageValue(total decimal.Decimal, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count))
}
