package render

import (
	"bytes"
	"fmt"

	"order-report-services/internal/analytics"

	"github.com/phpdave11/gofpdf"
)

func newDocument(title string, subtitle string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(3)
	return pdf
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
}

func line(pdf *gofpdf.Fpdf, label string, value string) {
	pdf.CellFormat(80, 5, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, value, "", 1, "R", false, 0, "")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func SummaryPDF(s analytics.Summary) ([]byte, error) {
	pdf := newDocument(fmt.Sprintf("Sales report: %s", s.Branch), RangeText(s.Range))

	section(pdf, "Orders")
	line(pdf, "Paid orders", fmt.Sprintf("%d", s.OrdersCount))
	line(pdf, "Revenue", Money(s.RevenueTotal))
	line(pdf, "Average check", Money(s.AvgCheck))

	section(pdf, "Payments")
	line(pdf, "Cash", Money(s.Payments.Cash))
	line(pdf, "Card", Money(s.Payments.Card))
	line(pdf, "Click", Money(s.Payments.Click))

	section(pdf, "Staff compensation")
	line(pdf, "Compensation base", Money(s.CompensationBaseTotal))
	line(pdf, "Base salary", Money(s.CompensationBaseSalaryTotal))
	line(pdf, "Bonus", Money(s.CompensationBonusTotal))
	pdf.SetFont("Arial", "B", 10)
	line(pdf, "Total", Money(s.CompensationTotal))

	return output(pdf)
}

var staffColumns = []struct {
	title string
	width float64
	align string
}{
	{"#", 8, "L"},
	{"Staff", 48, "L"},
	{"Orders", 16, "R"},
	{"Revenue", 28, "R"},
	{"Percent", 18, "R"},
	{"Base", 22, "R"},
	{"Bonus", 22, "R"},
	{"Total", 24, "R"},
}

func StaffPDF(report analytics.StaffReport) ([]byte, error) {
	pdf := newDocument(fmt.Sprintf("Staff report: %s", report.Branch),
		fmt.Sprintf("%s (%s view)", RangeText(report.Range), report.View))

	pdf.SetFont("Arial", "B", 9)
	for _, col := range staffColumns {
		pdf.CellFormat(col.width, 6, col.title, "B", 0, col.align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(report.Rows) == 0 {
		pdf.CellFormat(0, 6, noData, "", 1, "L", false, 0, "")
	}
	offset := (report.Meta.Page - 1) * report.Meta.Limit
	for i, row := range report.Rows {
		percent := Percent(row.EffectivePercent)
		if row.MixedPercent {
			percent = "mixed"
		}
		name := row.StaffName
		if row.IsExcluded {
			name += " *"
		}
		values := []string{
			fmt.Sprintf("%d", offset+i+1),
			name,
			fmt.Sprintf("%d", row.OrdersCount),
			Money(row.RevenueTotal),
			percent,
			Money(row.BaseCompensation),
			Money(row.BonusCompensation),
			Money(row.TotalCompensation),
		}
		for j, col := range staffColumns {
			pdf.CellFormat(col.width, 5, values[j], "", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 4, fmt.Sprintf("Page %d of %d, %d staff. * excluded from compensation.",
		report.Meta.Page, report.Meta.Pages, report.Meta.Total), "", 1, "L", false, 0, "")

	return output(pdf)
}
