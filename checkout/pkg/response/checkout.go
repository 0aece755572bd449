package response

import (
	"github.com/tbestore/storefront/internal/recordstore"
)

type Checkout struct {
	OrderId string            `json:"orderId"`
	Order   recordstore.Order `json:"order"`
}
