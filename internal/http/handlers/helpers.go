package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"order-report-services/internal/analytics"
	"order-report-services/internal/middleware"
	"order-report-services/internal/queue"
	"order-report-services/pkg/response"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func zapError(err error) zap.Field {
	return zap.Error(err)
}

func parseIntWithDefault(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

// pageRequest fills missing or malformed values with the defaults. Explicit
// out-of-range values are left for the engine to clamp.
func pageRequest(r *http.Request) analytics.PageRequest {
	defaults := analytics.DefaultPageRequest()
	return analytics.PageRequest{
		Page:  parseIntWithDefault(r.URL.Query().Get("page"), defaults.Page),
		Limit: parseIntWithDefault(r.URL.Query().Get("limit"), defaults.Limit),
	}
}

func (h *Handler) branch(r *http.Request) string {
	return middleware.ResolveBranch(r, h.Config.DefaultBranch)
}

func amount(value decimal.Decimal) float64 {
	return value.InexactFloat64()
}

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitizeFilename(value string) string {
	clean := filenameUnsafe.ReplaceAllString(value, "_")
	return strings.Trim(clean, "_")
}

func (h *Handler) writeReportError(w http.ResponseWriter, r *http.Request, report string, branch string, err error) {
	var validation *analytics.ValidationError
	switch {
	case errors.As(err, &validation):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", validation.Error())
	case errors.Is(err, analytics.ErrValidation):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, analytics.ErrUnknownBranch):
		response.Error(w, http.StatusBadRequest, "UNKNOWN_BRANCH", fmt.Sprintf("Unknown branch %q", branch))
	case errors.Is(err, analytics.ErrSourceUnavailable), errors.Is(err, context.DeadlineExceeded):
		h.Logger.Warn("report source unavailable",
			zap.String("report", report),
			zap.String("branch", branch),
			zap.String("requestId", middleware.RequestIDFrom(r)),
			zapError(err),
		)
		response.Error(w, http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE", "Order data is temporarily unavailable")
	default:
		h.Logger.Error("report failed",
			zap.String("report", report),
			zap.String("branch", branch),
			zap.String("requestId", middleware.RequestIDFrom(r)),
			zapError(err),
		)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build report")
	}
}

func (h *Handler) reportServed(r *http.Request, report string, branch string, dateRange analytics.DateRange, rows int, start time.Time) {
	h.Events.ReportServed(r.Context(), queue.ReportServed{
		Report:     report,
		Branch:     branch,
		From:       dateRange.From,
		To:         dateRange.To,
		Rows:       rows,
		RequestID:  middleware.RequestIDFrom(r),
		DurationMs: time.Since(start).Milliseconds(),
	})
}
