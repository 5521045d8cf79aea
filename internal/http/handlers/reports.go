package handlers

import (
	"net/http"
	"time"

	"order-report-services/internal/analytics"
	"order-report-services/pkg/response"
)

type paymentsDTO struct {
	Cash  float64 `json:"cash"`
	Card  float64 `json:"card"`
	Click float64 `json:"click"`
}

type summaryDTO struct {
	Range                       analytics.DateRange `json:"range"`
	Branch                      string              `json:"branch"`
	OrdersCount                 int64               `json:"ordersCount"`
	RevenueTotal                float64             `json:"revenueTotal"`
	AvgCheck                    float64             `json:"avgCheck"`
	CompensationBaseTotal       float64             `json:"compensationBaseTotal"`
	CompensationBaseSalaryTotal float64             `json:"compensationBaseSalaryTotal"`
	CompensationBonusTotal      float64             `json:"compensationBonusTotal"`
	CompensationTotal           float64             `json:"compensationTotal"`
	Payments                    paymentsDTO         `json:"payments"`
}

type staffRowDTO struct {
	StaffName             string  `json:"staffName"`
	OrdersCount           int64   `json:"ordersCount"`
	RevenueTotal          float64 `json:"revenueTotal"`
	CompensationBaseTotal float64 `json:"compensationBaseTotal"`
	BaseCompensation      float64 `json:"baseCompensation"`
	BonusCompensation     float64 `json:"bonusCompensation"`
	TotalCompensation     float64 `json:"totalCompensation"`
	EffectivePercent      float64 `json:"effectivePercent"`
	BonusPercent          float64 `json:"bonusPercent"`
	MixedPercent          bool    `json:"mixedPercent"`
	IsExcluded            bool    `json:"isExcluded"`
}

type staffMeta struct {
	analytics.PageMeta
	View analytics.StaffView `json:"view"`
}

type productRowDTO struct {
	Name         string  `json:"name"`
	CategoryName *string `json:"category_name"`
	TotalQty     float64 `json:"totalQty"`
	AvgPrice     float64 `json:"avgPrice"`
	RevenueTotal float64 `json:"revenueTotal"`
	OrdersCount  int64   `json:"ordersCount"`
}

type productsMeta struct {
	analytics.PageMeta
	Category *string `json:"category"`
}

type topProductsMeta struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Limit    int     `json:"limit"`
	Category *string `json:"category"`
}

type categoriesMeta struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

func (h *Handler) ReportsSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	branch := h.branch(r)
	summary, err := h.Engine.Summary(r.Context(), analytics.SummaryQuery{
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Branch: branch,
	})
	if err != nil {
		h.writeReportError(w, r, "summary", branch, err)
		return
	}

	response.Success(w, toSummaryDTO(summary))
	h.reportServed(r, "summary", branch, summary.Range, int(summary.OrdersCount), start)
}

func (h *Handler) ReportsStaff(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	branch := h.branch(r)
	report, err := h.staffReport(r, branch)
	if err != nil {
		h.writeReportError(w, r, "staff", branch, err)
		return
	}

	rows := make([]staffRowDTO, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, toStaffRowDTO(row))
	}
	response.SuccessWithMeta(w, rows, staffMeta{PageMeta: report.Meta, View: report.View})
	h.reportServed(r, "staff", branch, report.Range, len(rows), start)
}

func (h *Handler) staffReport(r *http.Request, branch string) (analytics.StaffReport, error) {
	view, err := analytics.ParseStaffView(r.URL.Query().Get("view"))
	if err != nil {
		return analytics.StaffReport{}, err
	}
	return h.Engine.StaffReport(r.Context(), analytics.StaffQuery{
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Branch: branch,
		Page:   pageRequest(r),
		View:   view,
	})
}

func (h *Handler) ReportsProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	branch := h.branch(r)
	report, err := h.Engine.ProductsReport(r.Context(), analytics.ProductsQuery{
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
		Branch:   branch,
		Category: r.URL.Query().Get("category"),
		Page:     pageRequest(r),
	})
	if err != nil {
		h.writeReportError(w, r, "products", branch, err)
		return
	}

	rows := toProductRowDTOs(report.Rows)
	response.SuccessWithMeta(w, rows, productsMeta{PageMeta: report.Meta, Category: optionalString(report.Category)})
	h.reportServed(r, "products", branch, report.Range, len(rows), start)
}

func (h *Handler) ReportsTopProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	branch := h.branch(r)
	report, err := h.Engine.TopProducts(r.Context(), analytics.TopProductsQuery{
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
		Branch:   branch,
		Category: r.URL.Query().Get("category"),
		Limit:    parseIntWithDefault(r.URL.Query().Get("limit"), analytics.DefaultTopLimit),
	})
	if err != nil {
		h.writeReportError(w, r, "top-products", branch, err)
		return
	}

	rows := toProductRowDTOs(report.Rows)
	response.SuccessWithMeta(w, rows, topProductsMeta{
		From:     report.Range.From,
		To:       report.Range.To,
		Limit:    report.Limit,
		Category: optionalString(report.Category),
	})
	h.reportServed(r, "top-products", branch, report.Range, len(rows), start)
}

func (h *Handler) ReportsCategories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	branch := h.branch(r)
	report, err := h.Engine.Categories(r.Context(), analytics.CategoriesQuery{
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Branch: branch,
	})
	if err != nil {
		h.writeReportError(w, r, "categories", branch, err)
		return
	}

	response.SuccessWithMeta(w, report.Categories, categoriesMeta{
		From:  report.Range.From,
		To:    report.Range.To,
		Count: len(report.Categories),
	})
	h.reportServed(r, "categories", branch, report.Range, len(report.Categories), start)
}

func toSummaryDTO(s analytics.Summary) summaryDTO {
	return summaryDTO{
		Range:                       s.Range,
		Branch:                      s.Branch,
		OrdersCount:                 s.OrdersCount,
		RevenueTotal:                amount(s.RevenueTotal),
		AvgCheck:                    amount(s.AvgCheck),
		CompensationBaseTotal:       amount(s.CompensationBaseTotal),
		CompensationBaseSalaryTotal: amount(s.CompensationBaseSalaryTotal),
		CompensationBonusTotal:      amount(s.CompensationBonusTotal),
		CompensationTotal:           amount(s.CompensationTotal),
		Payments: paymentsDTO{
			Cash:  amount(s.Payments.Cash),
			Card:  amount(s.Payments.Card),
			Click: amount(s.Payments.Click),
		},
	}
}

func toStaffRowDTO(row analytics.StaffRow) staffRowDTO {
	return staffRowDTO{
		StaffName:             row.StaffName,
		OrdersCount:           row.OrdersCount,
		RevenueTotal:          amount(row.RevenueTotal),
		CompensationBaseTotal: amount(row.CompensationBaseTotal),
		BaseCompensation:      amount(row.BaseCompensation),
		BonusCompensation:     amount(row.BonusCompensation),
		TotalCompensation:     amount(row.TotalCompensation),
		EffectivePercent:      amount(row.EffectivePercent),
		BonusPercent:          amount(row.BonusPercent),
		MixedPercent:          row.MixedPercent,
		IsExcluded:            row.IsExcluded,
	}
}

func toProductRowDTOs(rows []analytics.ProductRow) []productRowDTO {
	out := make([]productRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, productRowDTO{
			Name:         row.Name,
			CategoryName: row.CategoryName,
			TotalQty:     amount(row.TotalQty),
			AvgPrice:     amount(row.AvgPrice),
			RevenueTotal: amount(row.RevenueTotal),
			OrdersCount:  row.OrdersCount,
		})
	}
	return out
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
