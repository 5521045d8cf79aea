package analytics

import "github.com/shopspring/decimal"

const (
	StatusPaid      = "paid"
	StatusOpen      = "open"
	StatusCancelled = "cancelled"
)

// Order is one persisted order row as delivered by a Source. Nullable numeric
// fields stay nil when the row does not carry them.
type Order struct {
	ID              string
	OrderDate       string
	Status          string
	StaffName       *string
	StaffPercentage *decimal.Decimal

	TotalPrice    *decimal.Decimal
	ServiceAmount *decimal.Decimal
	TaxAmount     *decimal.Decimal
	FinalTotal    *decimal.Decimal

	Items []LineItem

	PaymentMethod       *string
	PaymentAmount       *decimal.Decimal
	MixedPaymentDetails MixedPayment
}

type LineItem struct {
	Name         string
	CategoryName *string
	Price        *decimal.Decimal
	Quantity     *decimal.Decimal
}

type MixedPaymentKind int

const (
	MixedPaymentNone MixedPaymentKind = iota
	MixedPaymentObject
	MixedPaymentList
)

// MixedPayment holds split-payment data in whichever shape the row stored it.
// Only the fields matching Kind are meaningful.
type MixedPayment struct {
	Kind MixedPaymentKind

	CashAmount  *decimal.Decimal
	CardAmount  *decimal.Decimal
	ClickAmount *decimal.Decimal

	Entries []PaymentEntry
}

type PaymentEntry struct {
	Method *string
	Amount *decimal.Decimal
}

func valueOrZero(value *decimal.Decimal) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return *value
}
