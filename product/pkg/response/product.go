package response

import "github.com/shopspring/decimal"

type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"originalPrice,omitempty"`
	DiscountPercent int              `json:"discountPercent,omitempty"`
	Category        string           `json:"category"`
	ImageRef        string           `json:"imageRef"`
	Sizes           []string         `json:"sizes"`
}

type Products struct {
	Products []Product `json:"products"`
}
