package analytics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type ProductRow struct {
	Name         string
	CategoryName *string
	TotalQty     decimal.Decimal
	AvgPrice     decimal.Decimal
	RevenueTotal decimal.Decimal
	OrdersCount  int64
}

type productKey struct {
	name        string
	category    string
	hasCategory bool
}

type productAccumulator struct {
	row        ProductRow
	priceSum   decimal.Decimal
	priceCount int64
	orders     map[string]struct{}
}

// AggregateProducts expands line items, applies the optional category filter
// and groups by (name, category). OrdersCount counts distinct parent orders.
func AggregateProducts(orders []Order, category string) []ProductRow {
	filter := strings.TrimSpace(category)
	groups := make(map[productKey]*productAccumulator)
	keys := make([]productKey, 0)

	for orderIndex, order := range orders {
		orderID := order.ID
		if orderID == "" {
			// Rows without an identity still count as separate orders.
			orderID = "#" + strconv.Itoa(orderIndex)
		}
		for _, item := range order.Items {
			if filter != "" && !categoryMatches(item.CategoryName, filter) {
				continue
			}
			key := productKey{name: item.Name}
			if item.CategoryName != nil {
				key.category = *item.CategoryName
				key.hasCategory = true
			}

			acc := groups[key]
			if acc == nil {
				acc = &productAccumulator{
					row:    ProductRow{Name: productName(item.Name), CategoryName: item.CategoryName},
					orders: make(map[string]struct{}),
				}
				groups[key] = acc
				keys = append(keys, key)
			}

			price := valueOrZero(item.Price)
			qty := valueOrZero(item.Quantity)
			acc.row.TotalQty = acc.row.TotalQty.Add(qty)
			acc.row.RevenueTotal = acc.row.RevenueTotal.Add(price.Mul(qty))
			acc.priceSum = acc.priceSum.Add(price)
			acc.priceCount++
			acc.orders[orderID] = struct{}{}
		}
	}

	out := make([]ProductRow, 0, len(keys))
	for _, key := range keys {
		acc := groups[key]
		acc.row.AvgPrice = averageValue(acc.priceSum, acc.priceCount)
		acc.row.OrdersCount = int64(len(acc.orders))
		out = append(out, acc.row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RevenueTotal.GreaterThan(out[j].RevenueTotal)
	})
	return out
}

// categoryMatches is a case-insensitive exact comparison, never a prefix or
// pattern match.
func categoryMatches(category *string, filter string) bool {
	if category == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*category), filter)
}

func productName(name string) string {
	if strings.TrimSpace(name) == "" {
		return UnknownName
	}
	return name
}

// ListCategories returns the distinct lower-cased category names of all line
// items, sorted, without the "unknown" placeholder.
func ListCategories(orders []Order) []string {
	seen := make(map[string]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			name := UnknownName
			if item.CategoryName != nil {
				name = normalizeText(*item.CategoryName)
			}
			if name == "" || name == UnknownName {
				continue
			}
			seen[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
