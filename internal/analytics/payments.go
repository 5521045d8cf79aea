package analytics

import "github.com/shopspring/decimal"

const (
	PaymentCash  = "cash"
	PaymentCard  = "card"
	PaymentClick = "click"
)

type PaymentPair struct {
	Method string
	Amount decimal.Decimal
}

// NormalizePayments resolves the stored payment shape into method/amount
// pairs. A non-empty list wins over the object shape, which wins over the
// single-method fields.
func NormalizePayments(order Order) []PaymentPair {
	details := order.MixedPaymentDetails
	if details.Kind == MixedPaymentList && len(details.Entries) > 0 {
		pairs := make([]PaymentPair, 0, len(details.Entries))
		for _, entry := range details.Entries {
			pairs = append(pairs, PaymentPair{
				Method: paymentMethodName(entry.Method),
				Amount: valueOrZero(entry.Amount),
			})
		}
		return pairs
	}

	if details.Kind == MixedPaymentObject {
		return []PaymentPair{
			{Method: PaymentCash, Amount: valueOrZero(details.CashAmount)},
			{Method: PaymentCard, Amount: valueOrZero(details.CardAmount)},
			{Method: PaymentClick, Amount: valueOrZero(details.ClickAmount)},
		}
	}

	amount := order.PaymentAmount
	if amount == nil {
		amount = order.FinalTotal
	}
	return []PaymentPair{{Method: paymentMethodName(order.PaymentMethod), Amount: valueOrZero(amount)}}
}

func paymentMethodName(method *string) string {
	if method == nil {
		return UnknownName
	}
	normalized := normalizeText(*method)
	if normalized == "" {
		return UnknownName
	}
	return normalized
}

// PaymentTotals only tracks the methods the till supports.
type PaymentTotals struct {
	Cash  decimal.Decimal
	Card  decimal.Decimal
	Click decimal.Decimal
}

// Add ignores methods other than cash, card and click.
func (t *PaymentTotals) Add(pair PaymentPair) bool {
	switch pair.Method {
	case PaymentCash:
		t.Cash = t.Cash.Add(pair.Amount)
	case PaymentCard:
		t.Card = t.Card.Add(pair.Amount)
	case PaymentClick:
		t.Click = t.Click.Add(pair.Amount)
	default:
		return false
	}
	return true
}
