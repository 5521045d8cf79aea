package analytics

import (
	"context"
	"errors"
	"testing"
)

func TestSummaryEndToEnd(t *testing.T) {
	source := &fakeSource{orders: []Order{
		paidOrder("a", "2025-09-26", "10000"),
		paidOrder("b", "2025-09-26", "20000"),
		paidOrder("c", "2025-09-26", "30000"),
	}}
	engine := NewEngine(DefaultRules(), source)

	summary, err := engine.Summary(context.Background(), SummaryQuery{From: "2025-09-26", To: "2025-09-26", Branch: "branch1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.OrdersCount != 3 {
		t.Fatalf("expected 3 orders, got %d", summary.OrdersCount)
	}
	assertDecimal(t, "revenue", summary.RevenueTotal, "60000")
	assertDecimal(t, "avg check", summary.AvgCheck, "20000")
	assertDecimal(t, "compensation base", summary.CompensationBaseTotal, "60000")
	assertDecimal(t, "base salary", summary.CompensationBaseSalaryTotal, "6000")
	assertDecimal(t, "bonus", summary.CompensationBonusTotal, "4200")
	assertDecimal(t, "compensation", summary.CompensationTotal, "10200")
	assertDecimal(t, "unknown-method payments dropped", summary.Payments.Cash, "0")
	if summary.DroppedPayments != 3 {
		t.Fatalf("expected 3 dropped payments, got %d", summary.DroppedPayments)
	}
	if source.branch != "branch1" {
		t.Fatalf("expected branch passthrough, got %q", source.branch)
	}
	if summary.Range.From != "2025-09-26" || summary.Range.To != "2025-09-26" {
		t.Fatalf("unexpected range %+v", summary.Range)
	}
}

func TestSummaryIgnoresRowsOutsideSelection(t *testing.T) {
	cancelled := paidOrder("x", "2025-09-26", "999")
	cancelled.Status = StatusCancelled
	source := &fakeSource{orders: []Order{
		paidOrder("a", "2025-09-26", "100"),
		paidOrder("b", "2025-09-27", "200"),
		cancelled,
	}}
	engine := NewEngine(DefaultRules(), source)

	summary, err := engine.Summary(context.Background(), SummaryQuery{From: "2025-09-26", To: "2025-09-26"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.OrdersCount != 1 {
		t.Fatalf("expected 1 order on the single day, got %d", summary.OrdersCount)
	}
	assertDecimal(t, "revenue", summary.RevenueTotal, "100")
}

func TestSummaryPayments(t *testing.T) {
	split := paidOrder("a", "2025-09-26", "8000")
	split.PaymentMethod = str("click")
	split.PaymentAmount = dec("8000")
	split.MixedPaymentDetails = MixedPayment{Kind: MixedPaymentList, Entries: []PaymentEntry{
		{Method: str("cash"), Amount: dec("5000")},
		{Method: str("card"), Amount: dec("3000")},
	}}
	single := paidOrder("b", "2025-09-26", "1200")
	single.PaymentMethod = str("CLICK")
	other := paidOrder("c", "2025-09-26", "400")
	other.PaymentMethod = str("payme")

	engine := NewEngine(DefaultRules(), &fakeSource{orders: []Order{split, single, other}})
	summary, err := engine.Summary(context.Background(), SummaryQuery{From: "2025-09-01", To: "2025-09-30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "cash", summary.Payments.Cash, "5000")
	assertDecimal(t, "card", summary.Payments.Card, "3000")
	assertDecimal(t, "click", summary.Payments.Click, "1200")
	assertDecimal(t, "revenue", summary.RevenueTotal, "9600")
}

func TestSummaryEmpty(t *testing.T) {
	engine := NewEngine(DefaultRules(), &fakeSource{})
	summary, err := engine.Summary(context.Background(), SummaryQuery{From: "2025-09-26", To: "2025-09-26"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.OrdersCount != 0 {
		t.Fatalf("expected no orders, got %d", summary.OrdersCount)
	}
	assertDecimal(t, "avg check", summary.AvgCheck, "0")
	assertDecimal(t, "revenue", summary.RevenueTotal, "0")
}

func TestValidationShortCircuitsFetch(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
	}{
		{name: "missing from", from: "", to: "2025-09-26"},
		{name: "missing to", from: "2025-09-26", to: ""},
		{name: "wrong separator", from: "2025/09/26", to: "2025-09-26"},
		{name: "short year", from: "25-09-26", to: "2025-09-26"},
		{name: "not a calendar day", from: "2025-02-30", to: "2025-03-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source := &fakeSource{}
			engine := NewEngine(DefaultRules(), source)
			ctx := context.Background()

			checks := []func() error{
				func() error { _, err := engine.Summary(ctx, SummaryQuery{From: tc.from, To: tc.to}); return err },
				func() error { _, err := engine.StaffReport(ctx, StaffQuery{From: tc.from, To: tc.to}); return err },
				func() error {
					_, err := engine.ProductsReport(ctx, ProductsQuery{From: tc.from, To: tc.to})
					return err
				},
				func() error {
					_, err := engine.TopProducts(ctx, TopProductsQuery{From: tc.from, To: tc.to})
					return err
				},
				func() error { _, err := engine.Categories(ctx, CategoriesQuery{From: tc.from, To: tc.to}); return err },
			}
			for i, check := range checks {
				err := check()
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("operation %d: expected validation error, got %v", i, err)
				}
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) || validationErr.Field == "" {
					t.Fatalf("operation %d: expected field on validation error", i)
				}
			}
			if source.calls != 0 {
				t.Fatalf("expected no fetch, got %d", source.calls)
			}
		})
	}
}

func TestSourceErrorsPropagate(t *testing.T) {
	source := &fakeSource{err: ErrSourceUnavailable}
	engine := NewEngine(DefaultRules(), source)

	_, err := engine.Summary(context.Background(), SummaryQuery{From: "2025-09-26", To: "2025-09-26"})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("source failure must not look like a validation error")
	}
}

func TestEngineWithoutSource(t *testing.T) {
	engine := NewEngine(DefaultRules(), nil)
	_, err := engine.Categories(context.Background(), CategoriesQuery{From: "2025-09-26", To: "2025-09-26"})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}
