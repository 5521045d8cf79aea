package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"order-report-services/internal/analytics"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

type mongoBackend struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func newMongoBackend(ctx context.Context, uri string, database string, collection string) (*mongoBackend, error) {
	database, err := mongoDatabaseName(uri, database)
	if err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &mongoBackend{client: client, collection: client.Database(database).Collection(collection)}, nil
}

func (b *mongoBackend) FetchPaidOrders(ctx context.Context, dateRange analytics.DateRange) ([]analytics.Order, error) {
	filter := bson.M{
		"status":     analytics.StatusPaid,
		"order_date": bson.M{"$gte": dateRange.From, "$lte": dateRange.To},
	}
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := b.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]analytics.Order, 0)
	for cursor.Next(ctx) {
		order, err := decodeOrderDocument(cursor.Current)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (b *mongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

func decodeOrderDocument(doc bson.Raw) (analytics.Order, error) {
	order := analytics.Order{
		ID:              rawID(doc.Lookup("_id")),
		OrderDate:       rawString(doc.Lookup("order_date")),
		Status:          rawString(doc.Lookup("status")),
		StaffName:       rawStringPtr(doc.Lookup("waiter_name")),
		StaffPercentage: rawDecimal(doc.Lookup("waiter_percentage")),
		TotalPrice:      rawDecimal(doc.Lookup("total_price")),
		ServiceAmount:   rawDecimal(doc.Lookup("service_amount")),
		TaxAmount:       rawDecimal(doc.Lookup("tax_amount")),
		FinalTotal:      rawDecimal(doc.Lookup("final_total")),
		PaymentMethod:   rawStringPtr(doc.Lookup("paymentMethod")),
		PaymentAmount:   rawDecimal(doc.Lookup("paymentAmount")),
	}

	if items, ok := doc.Lookup("items").ArrayOK(); ok {
		values, err := items.Values()
		if err != nil {
			return analytics.Order{}, fmt.Errorf("order %s: decode items: %w", order.ID, err)
		}
		order.Items = make([]analytics.LineItem, 0, len(values))
		for _, value := range values {
			item, ok := value.DocumentOK()
			if !ok {
				continue
			}
			order.Items = append(order.Items, analytics.LineItem{
				Name:         rawString(item.Lookup("name")),
				CategoryName: rawStringPtr(item.Lookup("category_name")),
				Price:        rawDecimal(item.Lookup("price")),
				Quantity:     rawDecimal(item.Lookup("quantity")),
			})
		}
	}

	mixed, err := decodeMixedPaymentRaw(doc.Lookup("mixedPaymentDetails"))
	if err != nil {
		return analytics.Order{}, fmt.Errorf("order %s: %w", order.ID, err)
	}
	order.MixedPaymentDetails = mixed
	return order, nil
}

func decodeMixedPaymentRaw(value bson.RawValue) (analytics.MixedPayment, error) {
	switch value.Type {
	case bsontype.Array:
		values, err := value.Array().Values()
		if err != nil {
			return analytics.MixedPayment{}, fmt.Errorf("decode mixed payment list: %w", err)
		}
		out := analytics.MixedPayment{Kind: analytics.MixedPaymentList, Entries: make([]analytics.PaymentEntry, 0, len(values))}
		for _, entry := range values {
			doc, ok := entry.DocumentOK()
			if !ok {
				continue
			}
			out.Entries = append(out.Entries, analytics.PaymentEntry{
				Method: rawStringPtr(doc.Lookup("method")),
				Amount: rawDecimal(doc.Lookup("amount")),
			})
		}
		return out, nil
	case bsontype.EmbeddedDocument:
		doc := value.Document()
		return analytics.MixedPayment{
			Kind:        analytics.MixedPaymentObject,
			CashAmount:  rawDecimal(doc.Lookup("cashAmount")),
			CardAmount:  rawDecimal(doc.Lookup("cardAmount")),
			ClickAmount: rawDecimal(doc.Lookup("clickAmount")),
		}, nil
	default:
		return analytics.MixedPayment{}, nil
	}
}

func rawID(value bson.RawValue) string {
	if oid, ok := value.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := value.StringValueOK(); ok {
		return s
	}
	if d := rawDecimal(value); d != nil {
		return d.String()
	}
	return ""
}

func rawString(value bson.RawValue) string {
	if s, ok := value.StringValueOK(); ok {
		return s
	}
	return ""
}

func rawStringPtr(value bson.RawValue) *string {
	s, ok := value.StringValueOK()
	if !ok {
		return nil
	}
	return &s
}

// rawDecimal accepts every numeric BSON type plus numeric strings. Missing,
// null and non-numeric values map to nil.
func rawDecimal(value bson.RawValue) *decimal.Decimal {
	var out decimal.Decimal
	switch value.Type {
	case bsontype.Double:
		out = decimal.NewFromFloat(value.Double())
	case bsontype.Int32:
		out = decimal.NewFromInt32(value.Int32())
	case bsontype.Int64:
		out = decimal.NewFromInt(value.Int64())
	case bsontype.Decimal128:
		bi, exp, err := value.Decimal128().BigInt()
		if err != nil {
			return nil
		}
		out = decimal.NewFromBigInt(bi, int32(exp))
	case bsontype.String:
		parsed, err := decimal.NewFromString(strings.TrimSpace(value.StringValue()))
		if err != nil {
			return nil
		}
		out = parsed
	default:
		return nil
	}
	return &out
}

// mongoDatabaseName prefers the configured database and falls back to the
// one named in the connection string path.
func mongoDatabaseName(uri string, configured string) (string, error) {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured, nil
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if cs.Database == "" {
		return "", errors.New("no mongo database configured: set MONGO_DATABASE or name one in the URI")
	}
	return cs.Database, nil
}
