package recordstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tbestore/storefront/internal/config"
)

// Order mirrors the hosted order table. Orders are created exactly once at
// checkout and immutable afterwards from this client's perspective.
type Order struct {
	RecordID      string          `json:"recordId,omitempty"`
	OrderID       string          `json:"orderId"`
	Products      string          `json:"products"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CID           string          `json:"cid"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
}

func (o Order) MarshalZerologObject(e *zerolog.Event) {
	e.Str("recordId", o.RecordID).
		Str("orderId", o.OrderID).
		Str("cid", o.CID).
		Int("totalQuantity", o.TotalQuantity).
		Str("totalAmount", o.TotalAmount.String())
}

func (o Order) fields() map[string]interface{} {
	return map[string]interface{}{
		"OrderID":       o.OrderID,
		"Products":      o.Products,
		"TotalQuantity": o.TotalQuantity,
		"TotalAmount":   o.TotalAmount.InexactFloat64(),
		"CID":           o.CID,
		"Date":          o.Date,
		"Time":          o.Time,
	}
}

func orderFromRecord(r Record) Order {
	return Order{
		RecordID:      r.ID,
		OrderID:       stringField(r.Fields, "OrderID"),
		Products:      stringField(r.Fields, "Products"),
		TotalQuantity: intField(r.Fields, "TotalQuantity"),
		TotalAmount:   decimalField(r.Fields, "TotalAmount"),
		CID:           stringField(r.Fields, "CID"),
		Date:          stringField(r.Fields, "Date"),
		Time:          stringField(r.Fields, "Time"),
	}
}

type OrderRepository struct {
	client *Client
	table  Table
}

func NewOrderRepository(client *Client, cfg config.RecordStore) *OrderRepository {
	return &OrderRepository{
		client: client,
		table:  Table{BaseID: cfg.OrderBaseID, TableID: cfg.OrderTableID},
	}
}

func (r *OrderRepository) List(c context.Context) ([]Order, error) {
	records, err := r.client.List(c, r.table)
	if err != nil {
		return nil, fmt.Errorf("failed listing orders with error=%w", err)
	}
	orders := make([]Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, orderFromRecord(record))
	}
	return orders, nil
}

func (r *OrderRepository) FindByCustomerId(c context.Context, cid string) ([]Order, error) {
	records, err := r.client.FindAllByField(c, r.table, "CID", cid)
	if err != nil {
		return nil, fmt.Errorf("failed finding orders by cid=%s with error=%w", cid, err)
	}
	orders := make([]Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, orderFromRecord(record))
	}
	return orders, nil
}

func (r *OrderRepository) Create(c context.Context, order Order) (Order, error) {
	record, err := r.client.Create(c, r.table, order.fields())
	if err != nil {
		return Order{}, fmt.Errorf("failed creating order with error=%w", err)
	}
	return orderFromRecord(record), nil
}

func intField(fields map[string]interface{}, key string) int {
	v, ok := fields[key].(float64)
	if !ok {
		return 0
	}
	return int(v)
}

func decimalField(fields map[string]interface{}, key string) decimal.Decimal {
	v, ok := fields[key].(float64)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
