package render

import (
	"fmt"
	"io"
	"strings"

	"order-report-services/internal/analytics"
)

const noData = "No data for the selected period."

func WriteSummary(w io.Writer, s analytics.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "REPORT (%s)\n", s.Branch)
	fmt.Fprintf(&b, "Period: %s\n\n", RangeText(s.Range))
	fmt.Fprintf(&b, "Orders: %d\n", s.OrdersCount)
	fmt.Fprintf(&b, "Revenue: %s\n", Money(s.RevenueTotal))
	fmt.Fprintf(&b, "Average check: %s\n\n", Money(s.AvgCheck))
	fmt.Fprintf(&b, "Cash: %s\n", Money(s.Payments.Cash))
	fmt.Fprintf(&b, "Card: %s\n", Money(s.Payments.Card))
	fmt.Fprintf(&b, "Click: %s\n\n", Money(s.Payments.Click))
	fmt.Fprintf(&b, "Compensation base: %s\n", Money(s.CompensationBaseTotal))
	fmt.Fprintf(&b, "Base salary: %s\n", Money(s.CompensationBaseSalaryTotal))
	fmt.Fprintf(&b, "Bonus: %s\n", Money(s.CompensationBonusTotal))
	fmt.Fprintf(&b, "Compensation total: %s\n", Money(s.CompensationTotal))
	_, err := io.WriteString(w, b.String())
	return err
}

func WriteStaff(w io.Writer, report analytics.StaffReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Staff (%s, %s view)\n", report.Branch, report.View)
	fmt.Fprintf(&b, "Period: %s\n\n", RangeText(report.Range))
	if len(report.Rows) == 0 {
		b.WriteString(noData + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	offset := (report.Meta.Page - 1) * report.Meta.Limit
	for i, row := range report.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		name := row.StaffName
		if row.IsExcluded {
			name += " (excluded)"
		}
		percent := Percent(row.EffectivePercent)
		if row.MixedPercent {
			percent = "mixed"
		}
		fmt.Fprintf(&b, "%d) %s\n", offset+i+1, name)
		fmt.Fprintf(&b, "   orders %d | revenue %s\n", row.OrdersCount, Money(row.RevenueTotal))
		fmt.Fprintf(&b, "   %s + bonus %s = %s (%s)\n",
			Money(row.BaseCompensation), Money(row.BonusCompensation), Money(row.TotalCompensation), percent)
	}
	fmt.Fprintf(&b, "\nPage %d of %d (%d staff)\n", report.Meta.Page, report.Meta.Pages, report.Meta.Total)
	_, err := io.WriteString(w, b.String())
	return err
}

func WriteProducts(w io.Writer, title string, r analytics.DateRange, offset int, rows []analytics.ProductRow) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "Period: %s\n\n", RangeText(r))
	if len(rows) == 0 {
		b.WriteString(noData + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	for i, row := range rows {
		name := row.Name
		if row.CategoryName != nil && *row.CategoryName != "" {
			name += " [" + *row.CategoryName + "]"
		}
		fmt.Fprintf(&b, "%d) %s\n", offset+i+1, name)
		fmt.Fprintf(&b, "   qty %s | revenue %s | orders %d\n", Quantity(row.TotalQty), Money(row.RevenueTotal), row.OrdersCount)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func WriteCategories(w io.Writer, report analytics.CategoriesReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Categories\n")
	fmt.Fprintf(&b, "Period: %s\n\n", RangeText(report.Range))
	if len(report.Categories) == 0 {
		b.WriteString(noData + "\n")
	}
	for _, name := range report.Categories {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
