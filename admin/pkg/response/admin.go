package response

import "github.com/tbestore/storefront/internal/recordstore"

type Customers struct {
	Customers []recordstore.Customer `json:"customers"`
}

type Orders struct {
	Orders []recordstore.Order `json:"orders"`
}
