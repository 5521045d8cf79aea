package analytics

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func str(value string) *string {
	return &value
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	expected := decimal.RequireFromString(want)
	if !got.Equal(expected) {
		t.Fatalf("expected %s %s, got %s", label, expected, got)
	}
}

type fakeSource struct {
	orders []Order
	err    error
	calls  int
	branch string
	dates  DateRange
}

func (f *fakeSource) FetchPaidOrders(_ context.Context, branch string, dateRange DateRange) ([]Order, error) {
	f.calls++
	f.branch = branch
	f.dates = dateRange
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

func paidOrder(id string, day string, finalTotal string) Order {
	return Order{ID: id, OrderDate: day, Status: StatusPaid, FinalTotal: dec(finalTotal)}
}
