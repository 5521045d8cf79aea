package analytics

import (
	"context"
	"fmt"
	"strings"
)

// Source fetches paid orders of one branch whose order_date lies in the
// inclusive range. Retries, if any, belong to the implementation.
type Source interface {
	FetchPaidOrders(ctx context.Context, branch string, dateRange DateRange) ([]Order, error)
}

type Engine struct {
	rules  Rules
	source Source
}

func NewEngine(rules Rules, source Source) *Engine {
	return &Engine{rules: rules, source: source}
}

type SummaryQuery struct {
	From   string
	To     string
	Branch string
}

type StaffQuery struct {
	From   string
	To     string
	Branch string
	Page   PageRequest
	View   StaffView
}

type StaffReport struct {
	Range  DateRange
	Branch string
	View   StaffView
	Rows   []StaffRow
	Meta   PageMeta
}

type ProductsQuery struct {
	From     string
	To       string
	Branch   string
	Category string
	Page     PageRequest
}

type ProductsReport struct {
	Range    DateRange
	Branch   string
	Category string
	Rows     []ProductRow
	Meta     PageMeta
}

type TopProductsQuery struct {
	From     string
	To       string
	Branch   string
	Category string
	Limit    int
}

type TopProductsReport struct {
	Range    DateRange
	Branch   string
	Category string
	Limit    int
	Rows     []ProductRow
}

type CategoriesQuery struct {
	From   string
	To     string
	Branch string
}

type CategoriesReport struct {
	Range      DateRange
	Branch     string
	Categories []string
}

func (e *Engine) Summary(ctx context.Context, query SummaryQuery) (Summary, error) {
	dateRange, err := NewDateRange(query.From, query.To)
	if err != nil {
		return Summary{}, err
	}
	rows, err := e.classified(ctx, query.Branch, dateRange)
	if err != nil {
		return Summary{}, err
	}
	summary := Summarize(rows)
	summary.Range = dateRange
	summary.Branch = query.Branch
	return summary, nil
}

func (e *Engine) StaffReport(ctx context.Context, query StaffQuery) (StaffReport, error) {
	dateRange, err := NewDateRange(query.From, query.To)
	if err != nil {
		return StaffReport{}, err
	}
	view := query.View
	if view == "" {
		view = StaffViewAudit
	}
	rows, err := e.classified(ctx, query.Branch, dateRange)
	if err != nil {
		return StaffReport{}, err
	}
	page, meta := paginate(AggregateStaff(rows, view), query.Page.Normalize())
	return StaffReport{Range: dateRange, Branch: query.Branch, View: view, Rows: page, Meta: meta}, nil
}

func (e *Engine) ProductsReport(ctx context.Context, query ProductsQuery) (ProductsReport, error) {
	dateRange, err := NewDateRange(query.From, query.To)
	if err != nil {
		return ProductsReport{}, err
	}
	orders, err := e.fetch(ctx, query.Branch, dateRange)
	if err != nil {
		return ProductsReport{}, err
	}
	category := strings.TrimSpace(query.Category)
	page, meta := paginate(AggregateProducts(orders, category), query.Page.Normalize())
	return ProductsReport{Range: dateRange, Branch: query.Branch, Category: category, Rows: page, Meta: meta}, nil
}

func (e *Engine) TopProducts(ctx context.Context, query TopProductsQuery) (TopProductsReport, error) {
	dateRange, err := NewDateRange(query.From, query.To)
	if err != nil {
		return TopProductsReport{}, err
	}
	orders, err := e.fetch(ctx, query.Branch, dateRange)
	if err != nil {
		return TopProductsReport{}, err
	}
	category := strings.TrimSpace(query.Category)
	limit := ClampLimit(query.Limit, MaxTopLimit)
	rows := AggregateProducts(orders, category)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return TopProductsReport{Range: dateRange, Branch: query.Branch, Category: category, Limit: limit, Rows: rows}, nil
}

func (e *Engine) Categories(ctx context.Context, query CategoriesQuery) (CategoriesReport, error) {
	dateRange, err := NewDateRange(query.From, query.To)
	if err != nil {
		return CategoriesReport{}, err
	}
	orders, err := e.fetch(ctx, query.Branch, dateRange)
	if err != nil {
		return CategoriesReport{}, err
	}
	return CategoriesReport{Range: dateRange, Branch: query.Branch, Categories: ListCategories(orders)}, nil
}

func (e *Engine) fetch(ctx context.Context, branch string, dateRange DateRange) ([]Order, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrSourceUnavailable)
	}
	orders, err := e.source.FetchPaidOrders(ctx, branch, dateRange)
	if err != nil {
		return nil, fmt.Errorf("fetch orders for branch %q: %w", branch, err)
	}
	return selectOrders(orders, dateRange), nil
}

func (e *Engine) classified(ctx context.Context, branch string, dateRange DateRange) ([]ClassifiedOrder, error) {
	orders, err := e.fetch(ctx, branch, dateRange)
	if err != nil {
		return nil, err
	}
	rows := make([]ClassifiedOrder, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, Classify(e.rules, order))
	}
	return rows, nil
}
