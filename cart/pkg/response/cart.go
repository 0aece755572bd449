package response

import (
	"github.com/shopspring/decimal"

	"github.com/tbestore/storefront/internal/session"
)

type Cart struct {
	Items []session.CartItem `json:"items"`
	Count int                `json:"count"`
	Total decimal.Decimal    `json:"total"`
}

// NewCart derives count and total from the line items. The derived values
// are never stored, so they cannot drift from their source list.
func NewCart(items []session.CartItem) Cart {
	count := 0
	total := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return Cart{Items: items, Count: count, Total: total}
}
