package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"order-report-services/internal/analytics"
	"order-report-services/internal/config"
	"order-report-services/internal/queue"

	"github.com/shopspring/decimal"
)

type memorySource struct {
	orders  map[string][]analytics.Order
	err     error
	calls   int
	branch  string
	request analytics.DateRange
}

func (s *memorySource) FetchPaidOrders(_ context.Context, branch string, dateRange analytics.DateRange) ([]analytics.Order, error) {
	s.calls++
	s.branch = branch
	s.request = dateRange
	if s.err != nil {
		return nil, s.err
	}
	orders, ok := s.orders[branch]
	if !ok {
		return nil, fmt.Errorf("%w: %q", analytics.ErrUnknownBranch, branch)
	}
	return orders, nil
}

type recordingEvents struct {
	routingKeys []string
}

func (r *recordingEvents) PublishJSON(_ context.Context, _ string, routingKey string, _ any) error {
	r.routingKeys = append(r.routingKeys, routingKey)
	return nil
}

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func str(value string) *string {
	return &value
}

func sampleOrders() []analytics.Order {
	food := str("Food")
	return []analytics.Order{
		{ID: "1", OrderDate: "2025-09-26", Status: "paid", StaffName: str("Ali"), FinalTotal: dec("10000"), PaymentMethod: str("cash"),
			Items: []analytics.LineItem{{Name: "Pizza", CategoryName: food, Price: dec("5000"), Quantity: dec("2")}}},
		{ID: "2", OrderDate: "2025-09-26", Status: "paid", StaffName: str("Vali"), FinalTotal: dec("20000"), PaymentMethod: str("Card"),
			Items: []analytics.LineItem{{Name: "Pizza", CategoryName: food, Price: dec("5000"), Quantity: dec("1")}}},
		{ID: "3", OrderDate: "2025-09-26", Status: "paid", StaffName: str("delivery"), FinalTotal: dec("30000"),
			MixedPaymentDetails: analytics.MixedPayment{Kind: analytics.MixedPaymentObject, CashAmount: dec("10000"), ClickAmount: dec("20000")}},
		{ID: "4", OrderDate: "2025-09-26", Status: "open", FinalTotal: dec("99999")},
	}
}

func newTestRouter(source *memorySource, events *queue.Publisher) http.Handler {
	cfg := config.Config{Env: "test", DefaultBranch: "branch1"}
	return NewRouter(analytics.NewEngine(analytics.DefaultRules(), source), nil, cfg, events)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func get(t *testing.T, router http.Handler, target string, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", target, err)
		}
	}
	return rec, body
}

func TestSummaryEndpoint(t *testing.T) {
	source := &memorySource{orders: map[string][]analytics.Order{"branch1": sampleOrders()}}
	router := newTestRouter(source, nil)

	rec, body := get(t, router, "/api/reports/summary?from=2025-09-26&to=2025-09-26", nil)
	if rec.Code != http.StatusOK || !body.Success {
		t.Fatalf("expected 200 success, got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("expected no-store cache header")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}

	var data struct {
		Range        analytics.DateRange `json:"range"`
		Branch       string              `json:"branch"`
		OrdersCount  int64               `json:"ordersCount"`
		RevenueTotal float64             `json:"revenueTotal"`
		AvgCheck     float64             `json:"avgCheck"`
		Payments     map[string]float64  `json:"payments"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.OrdersCount != 3 || data.RevenueTotal != 60000 || data.AvgCheck != 20000 {
		t.Fatalf("unexpected totals %+v", data)
	}
	if data.Branch != "branch1" || data.Range.From != "2025-09-26" {
		t.Fatalf("expected branch and range echoed, got %+v", data)
	}
	expected := map[string]float64{"cash": 20000, "card": 20000, "click": 20000}
	for method, value := range expected {
		if data.Payments[method] != value {
			t.Fatalf("expected %s %v, got %v", method, value, data.Payments[method])
		}
	}
}

func TestStaffEndpointAndAlias(t *testing.T) {
	source := &memorySource{orders: map[string][]analytics.Order{"branch1": sampleOrders()}}
	router := newTestRouter(source, nil)

	for _, path := range []string{"/api/reports/staff", "/api/reports/waiters"} {
		rec, body := get(t, router, path+"?from=2025-09-26&to=2025-09-26&view=payroll&limit=1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var rows []struct {
			StaffName    string  `json:"staffName"`
			RevenueTotal float64 `json:"revenueTotal"`
			BonusPercent float64 `json:"bonusPercent"`
		}
		if err := json.Unmarshal(body.Data, &rows); err != nil {
			t.Fatalf("decode rows: %v", err)
		}
		if len(rows) != 1 || rows[0].StaffName != "Vali" || rows[0].BonusPercent != 7 {
			t.Fatalf("%s: expected Vali first, got %+v", path, rows)
		}
		var meta struct {
			Page  int    `json:"page"`
			Limit int    `json:"limit"`
			Total int    `json:"total"`
			Pages int    `json:"pages"`
			View  string `json:"view"`
		}
		if err := json.Unmarshal(body.Meta, &meta); err != nil {
			t.Fatalf("decode meta: %v", err)
		}
		if meta.Total != 2 || meta.Pages != 2 || meta.Limit != 1 || meta.View != "payroll" {
			t.Fatalf("%s: unexpected meta %+v", path, meta)
		}
	}
}

func TestProductEndpoints(t *testing.T) {
	source := &memorySource{orders: map[string][]analytics.Order{"branch1": sampleOrders()}}
	router := newTestRouter(source, nil)

	rec, body := get(t, router, "/api/reports/products?from=2025-09-26&to=2025-09-26&category=FOOD", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rows []struct {
		Name         string  `json:"name"`
		CategoryName *string `json:"category_name"`
		TotalQty     float64 `json:"totalQty"`
		RevenueTotal float64 `json:"revenueTotal"`
		OrdersCount  int64   `json:"ordersCount"`
	}
	if err := json.Unmarshal(body.Data, &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(rows) != 1 || rows[0].TotalQty != 3 || rows[0].RevenueTotal != 15000 || rows[0].OrdersCount != 2 {
		t.Fatalf("unexpected product rows %+v", rows)
	}
	var meta map[string]any
	if err := json.Unmarshal(body.Meta, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta["category"] != "FOOD" || meta["pages"] != float64(1) {
		t.Fatalf("unexpected products meta %v", meta)
	}

	_, body = get(t, router, "/api/reports/top-products?from=2025-09-26&to=2025-09-26&limit=500", nil)
	var topMeta map[string]any
	if err := json.Unmarshal(body.Meta, &topMeta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if topMeta["limit"] != float64(50) || topMeta["category"] != nil || topMeta["from"] != "2025-09-26" {
		t.Fatalf("unexpected top meta %v", topMeta)
	}
	if _, ok := topMeta["pages"]; ok {
		t.Fatalf("expected no pagination meta for top products")
	}

	_, body = get(t, router, "/api/reports/categories?from=2025-09-26&to=2025-09-26", nil)
	var categories []string
	if err := json.Unmarshal(body.Data, &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(categories) != 1 || categories[0] != "food" {
		t.Fatalf("expected [food], got %v", categories)
	}
}

func TestBranchResolution(t *testing.T) {
	source := &memorySource{orders: map[string][]analytics.Order{"branch1": nil, "branch2": nil}}
	router := newTestRouter(source, nil)

	get(t, router, "/api/reports/summary?from=2025-09-26&to=2025-09-26", map[string]string{"X-Branch": "branch2"})
	if source.branch != "branch2" {
		t.Fatalf("expected header branch, got %s", source.branch)
	}
	get(t, router, "/api/reports/summary?from=2025-09-26&to=2025-09-26&branch=branch1", map[string]string{"X-Branch": "branch2"})
	if source.branch != "branch1" {
		t.Fatalf("expected query branch to win, got %s", source.branch)
	}
}

func TestReportErrors(t *testing.T) {
	cases := []struct {
		name   string
		target string
		err    error
		status int
		code   string
		calls  int
	}{
		{name: "missing dates", target: "/api/reports/summary", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "bad date", target: "/api/reports/products?from=2025-13-01&to=2025-13-02", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "bad view", target: "/api/reports/staff?from=2025-09-26&to=2025-09-26&view=all", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "unknown branch", target: "/api/reports/categories?from=2025-09-26&to=2025-09-26&branch=nowhere", status: http.StatusBadRequest, code: "UNKNOWN_BRANCH", calls: 1},
		{name: "source down", target: "/api/reports/top-products?from=2025-09-26&to=2025-09-26", err: fmt.Errorf("%w: dial tcp", analytics.ErrSourceUnavailable), status: http.StatusServiceUnavailable, code: "SOURCE_UNAVAILABLE", calls: 1},
		{name: "unexpected", target: "/api/reports/summary?from=2025-09-26&to=2025-09-26", err: errors.New("boom"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR", calls: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source := &memorySource{orders: map[string][]analytics.Order{"branch1": nil}, err: tc.err}
			rec, body := get(t, newTestRouter(source, nil), tc.target, nil)
			if rec.Code != tc.status || body.Error != tc.code || body.Success {
				t.Fatalf("expected %d %s, got %d %s", tc.status, tc.code, rec.Code, rec.Body.String())
			}
			if source.calls != tc.calls {
				t.Fatalf("expected %d source calls, got %d", tc.calls, source.calls)
			}
		})
	}
}

func TestPDFExports(t *testing.T) {
	source := &memorySource{orders: map[string][]analytics.Order{"branch1": sampleOrders()}}
	router := newTestRouter(source, nil)

	for _, path := range []string{"/api/reports/summary.pdf", "/api/reports/staff.pdf"} {
		rec, _ := get(t, router, path+"?from=2025-09-26&to=2025-09-26", nil)
		if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
			t.Fatalf("%s: expected pdf, got %d %s", path, rec.Code, rec.Header().Get("Content-Type"))
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
			t.Fatalf("%s: expected a PDF body", path)
		}
	}

	rec, body := get(t, router, "/api/reports/staff.pdf?from=bad&to=2025-09-26", nil)
	if rec.Code != http.StatusBadRequest || body.Error != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error as JSON, got %d", rec.Code)
	}
}

func TestReportEventsPublished(t *testing.T) {
	source := &memorySource{orders: map[string][]analytics.Order{"branch1": sampleOrders()}}
	recorder := &recordingEvents{}
	router := newTestRouter(source, queue.NewPublisher(recorder, "reports.events", nil))

	get(t, router, "/api/reports/summary?from=2025-09-26&to=2025-09-26", nil)
	get(t, router, "/api/reports/summary?from=oops&to=2025-09-26", nil)
	get(t, router, "/api/reports/categories?from=2025-09-26&to=2025-09-26", nil)

	expected := []string{"report.served.summary", "report.served.categories"}
	if len(recorder.routingKeys) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, recorder.routingKeys)
	}
	for i, key := range expected {
		if recorder.routingKeys[i] != key {
			t.Fatalf("expected %s, got %s", key, recorder.routingKeys[i])
		}
	}
}

func TestHealth(t *testing.T) {
	rec, _ := get(t, newTestRouter(&memorySource{}, nil), "/health", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("expected ok, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestPaginationEdgeValues(t *testing.T) {
	source := &memorySource{orders: map[string][]analytics.Order{"branch1": sampleOrders()}}
	router := newTestRouter(source, nil)

	cases := []struct {
		target string
		limit  float64
		rows   int
	}{
		{target: "/api/reports/staff?from=2025-09-26&to=2025-09-26&page=9223372036854775807", limit: 10, rows: 0},
		{target: "/api/reports/products?from=2025-09-26&to=2025-09-26&page=9223372036854775807&limit=9223372036854775807", limit: 100, rows: 0},
		{target: "/api/reports/staff?from=2025-09-26&to=2025-09-26&limit=0", limit: 1, rows: 1},
		{target: "/api/reports/products?from=2025-09-26&to=2025-09-26&limit=0", limit: 1, rows: 1},
		{target: "/api/reports/top-products?from=2025-09-26&to=2025-09-26&limit=0", limit: 1, rows: 1},
	}
	for _, tc := range cases {
		rec, body := get(t, router, tc.target, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.target, rec.Code)
		}
		var rows []json.RawMessage
		if err := json.Unmarshal(body.Data, &rows); err != nil {
			t.Fatalf("%s: decode rows: %v", tc.target, err)
		}
		if len(rows) != tc.rows {
			t.Fatalf("%s: expected %d rows, got %d", tc.target, tc.rows, len(rows))
		}
		var meta map[string]any
		if err := json.Unmarshal(body.Meta, &meta); err != nil {
			t.Fatalf("%s: decode meta: %v", tc.target, err)
		}
		if meta["limit"] != tc.limit {
			t.Fatalf("%s: expected limit %v, got %v", tc.target, tc.limit, meta["limit"])
		}
	}
}
