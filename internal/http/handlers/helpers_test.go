package handlers

import (
	"net/http/httptest"
	"testing"

	"order-report-services/internal/analytics"
)

func TestPageRequest(t *testing.T) {
	cases := []struct {
		target   string
		expected analytics.PageRequest
	}{
		{target: "/r", expected: analytics.PageRequest{Page: 1, Limit: 10}},
		{target: "/r?page=3&limit=25", expected: analytics.PageRequest{Page: 3, Limit: 25}},
		{target: "/r?page=abc&limit=-5", expected: analytics.PageRequest{Page: 1, Limit: -5}},
		{target: "/r?page=%202%20", expected: analytics.PageRequest{Page: 2, Limit: 10}},
		{target: "/r?limit=0", expected: analytics.PageRequest{Page: 1, Limit: 0}},
		{target: "/r?limit=", expected: analytics.PageRequest{Page: 1, Limit: 10}},
	}
	for _, tc := range cases {
		got := pageRequest(httptest.NewRequest("GET", tc.target, nil))
		if got != tc.expected {
			t.Fatalf("%s: expected %+v, got %+v", tc.target, tc.expected, got)
		}
	}
}

func TestExportFilename(t *testing.T) {
	got := exportFilename("staff", "main hall/2", analytics.DateRange{From: "2025-09-01", To: "2025-09-30"})
	if got != "staff_main_hall_2_2025-09-01_2025-09-30.pdf" {
		t.Fatalf("unexpected filename %s", got)
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("") != nil {
		t.Fatalf("expected nil for empty category")
	}
	if got := optionalString("bar"); got == nil || *got != "bar" {
		t.Fatalf("expected bar, got %v", got)
	}
}
