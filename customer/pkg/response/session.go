package response

import "github.com/tbestore/storefront/internal/recordstore"

type Session struct {
	Token    string               `json:"token,omitempty"`
	Customer recordstore.Customer `json:"customer"`
	IsAdmin  bool                 `json:"isAdmin"`
}

type Orders struct {
	Orders []recordstore.Order `json:"orders"`
}
