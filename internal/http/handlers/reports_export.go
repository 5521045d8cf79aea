package handlers

import (
	"fmt"
	"net/http"
	"time"

	"order-report-services/internal/analytics"
	"order-report-services/internal/render"
	"order-report-services/pkg/response"
)

func (h *Handler) ReportsSummaryPDF(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	branch := h.branch(r)
	summary, err := h.Engine.Summary(r.Context(), analytics.SummaryQuery{
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Branch: branch,
	})
	if err != nil {
		h.writeReportError(w, r, "summary.pdf", branch, err)
		return
	}

	body, err := render.SummaryPDF(summary)
	if err != nil {
		h.writeReportError(w, r, "summary.pdf", branch, err)
		return
	}
	response.Binary(w, "application/pdf", exportFilename("summary", branch, summary.Range), body)
	h.reportServed(r, "summary.pdf", branch, summary.Range, int(summary.OrdersCount), start)
}

func (h *Handler) ReportsStaffPDF(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	branch := h.branch(r)
	report, err := h.staffReport(r, branch)
	if err != nil {
		h.writeReportError(w, r, "staff.pdf", branch, err)
		return
	}

	body, err := render.StaffPDF(report)
	if err != nil {
		h.writeReportError(w, r, "staff.pdf", branch, err)
		return
	}
	response.Binary(w, "application/pdf", exportFilename("staff", branch, report.Range), body)
	h.reportServed(r, "staff.pdf", branch, report.Range, len(report.Rows), start)
}

func exportFilename(report string, branch string, dateRange analytics.DateRange) string {
	return fmt.Sprintf("%s_%s_%s_%s.pdf", report, sanitizeFilename(branch), dateRange.From, dateRange.To)
}
