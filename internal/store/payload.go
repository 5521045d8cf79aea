package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"order-report-services/internal/analytics"

	"github.com/shopspring/decimal"
)

type lineItemJSON struct {
	Name         *string          `json:"name"`
	CategoryName *string          `json:"category_name"`
	Price        *decimal.Decimal `json:"price"`
	Quantity     *decimal.Decimal `json:"quantity"`
}

type paymentEntryJSON struct {
	Method *string          `json:"method"`
	Amount *decimal.Decimal `json:"amount"`
}

type paymentObjectJSON struct {
	CashAmount  *decimal.Decimal `json:"cashAmount"`
	CardAmount  *decimal.Decimal `json:"cardAmount"`
	ClickAmount *decimal.Decimal `json:"clickAmount"`
}

func decodeItemsJSON(raw []byte) ([]analytics.LineItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var decoded []lineItemJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	items := make([]analytics.LineItem, 0, len(decoded))
	for _, item := range decoded {
		name := ""
		if item.Name != nil {
			name = *item.Name
		}
		items = append(items, analytics.LineItem{
			Name:         name,
			CategoryName: item.CategoryName,
			Price:        item.Price,
			Quantity:     item.Quantity,
		})
	}
	return items, nil
}

// decodeMixedPaymentJSON picks the union variant from the first JSON token.
// Scalars are treated as absent.
func decodeMixedPaymentJSON(raw []byte) (analytics.MixedPayment, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return analytics.MixedPayment{}, nil
	}
	switch raw[0] {
	case '[':
		var entries []paymentEntryJSON
		if err := json.Unmarshal(raw, &entries); err != nil {
			return analytics.MixedPayment{}, fmt.Errorf("decode mixed payment list: %w", err)
		}
		out := analytics.MixedPayment{Kind: analytics.MixedPaymentList, Entries: make([]analytics.PaymentEntry, 0, len(entries))}
		for _, entry := range entries {
			out.Entries = append(out.Entries, analytics.PaymentEntry{Method: entry.Method, Amount: entry.Amount})
		}
		return out, nil
	case '{':
		var object paymentObjectJSON
		if err := json.Unmarshal(raw, &object); err != nil {
			return analytics.MixedPayment{}, fmt.Errorf("decode mixed payment object: %w", err)
		}
		return analytics.MixedPayment{
			Kind:        analytics.MixedPaymentObject,
			CashAmount:  object.CashAmount,
			CardAmount:  object.CardAmount,
			ClickAmount: object.ClickAmount,
		}, nil
	default:
		return analytics.MixedPayment{}, nil
	}
}
