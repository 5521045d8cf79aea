package store

import (
	"context"
	"fmt"

	"order-report-services/internal/analytics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresBackend struct {
	pool  *pgxpool.Pool
	query string
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func newPostgresBackend(ctx context.Context, databaseURL string, table string) (*postgresBackend, error) {
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &postgresBackend{pool: pool, query: paidOrdersQuery(table)}, nil
}

func paidOrdersQuery(table string) string {
	return `
		select id::text, order_date::text, status, staff_name, staff_percentage,
		       total_price, service_amount, tax_amount, final_total, items,
		       payment_method, payment_amount, mixed_payment_details
		from ` + pgx.Identifier{table}.Sanitize() + `
		where status = 'paid'
		  and order_date >= $1
		  and order_date <= $2
		order by order_date, id
	`
}

func (b *postgresBackend) FetchPaidOrders(ctx context.Context, dateRange analytics.DateRange) ([]analytics.Order, error) {
	rows, err := b.pool.Query(ctx, b.query, dateRange.From, dateRange.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]analytics.Order, 0)
	for rows.Next() {
		var (
			order           analytics.Order
			staffName       pgtype.Text
			staffPercentage pgtype.Numeric
			totalPrice      pgtype.Numeric
			serviceAmount   pgtype.Numeric
			taxAmount       pgtype.Numeric
			finalTotal      pgtype.Numeric
			items           []byte
			paymentMethod   pgtype.Text
			paymentAmount   pgtype.Numeric
			mixedPayment    []byte
		)
		if err := rows.Scan(&order.ID, &order.OrderDate, &order.Status, &staffName, &staffPercentage,
			&totalPrice, &serviceAmount, &taxAmount, &finalTotal, &items,
			&paymentMethod, &paymentAmount, &mixedPayment); err != nil {
			return nil, err
		}

		order.StaffName = textPtr(staffName)
		order.StaffPercentage = NumericToDecimal(staffPercentage)
		order.TotalPrice = NumericToDecimal(totalPrice)
		order.ServiceAmount = NumericToDecimal(serviceAmount)
		order.TaxAmount = NumericToDecimal(taxAmount)
		order.FinalTotal = NumericToDecimal(finalTotal)
		order.PaymentMethod = textPtr(paymentMethod)
		order.PaymentAmount = NumericToDecimal(paymentAmount)

		if order.Items, err = decodeItemsJSON(items); err != nil {
			return nil, fmt.Errorf("order %s: %w", order.ID, err)
		}
		if order.MixedPaymentDetails, err = decodeMixedPaymentJSON(mixedPayment); err != nil {
			return nil, fmt.Errorf("order %s: %w", order.ID, err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (b *postgresBackend) Close(context.Context) error {
	b.pool.Close()
	return nil
}
