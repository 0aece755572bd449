package request

// Checkout carries the contact fields edited on the checkout form. Empty
// fields keep the customer's stored values.
type Checkout struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}
