package request

import (
	"github.com/shopspring/decimal"
)

type AddItem struct {
	ProductId string          `validate:"required"       json:"productId"`
	Name      string          `validate:"required"       json:"name"`
	UnitPrice decimal.Decimal `validate:"required"       json:"unitPrice"`
	ImageRef  string          `                          json:"imageRef"`
	Size      string          `validate:"required"       json:"size"`
	Quantity  int             `validate:"required,min=1" json:"quantity"`
}

type UpdateQuantity struct {
	ProductId string `validate:"required" json:"productId"`
	Size      string `validate:"required" json:"size"`
	Quantity  int    `validate:"min=0"    json:"quantity"`
}

type RemoveItem struct {
	ProductId string `validate:"required" json:"productId"`
	Size      string `validate:"required" json:"size"`
}
