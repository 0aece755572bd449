package recordstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tbestore/storefront/internal/config"
)

// Customer mirrors the hosted customer table. The record store owns the
// data; this is a session-scoped cached copy.
type Customer struct {
	RecordID string `json:"recordId,omitempty"`
	CID      string `json:"cid"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Username string `json:"username"`
	Password string `json:"-"`
	// OrderID is the comma-joined list of order ids placed by this customer.
	OrderID string `json:"orderId"`
}

func (cu Customer) MarshalZerologObject(e *zerolog.Event) {
	e.Str("recordId", cu.RecordID).
		Str("cid", cu.CID).
		Str("username", cu.Username).
		Str("name", cu.Name)
}

// OrderIDs splits the comma-joined order-id list, handling the empty case.
func (cu Customer) OrderIDs() []string {
	if strings.TrimSpace(cu.OrderID) == "" {
		return nil
	}
	parts := strings.Split(cu.OrderID, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// AppendOrderID returns the comma-joined list with id appended, handling the
// empty-initial-list case.
func (cu Customer) AppendOrderID(id string) string {
	if strings.TrimSpace(cu.OrderID) == "" {
		return id
	}
	return cu.OrderID + "," + id
}

func (cu Customer) fields() map[string]interface{} {
	return map[string]interface{}{
		"CID":      cu.CID,
		"Name":     cu.Name,
		"Phone":    cu.Phone,
		"Address":  cu.Address,
		"City":     cu.City,
		"State":    cu.State,
		"ZipCode":  cu.ZipCode,
		"Username": cu.Username,
		"Password": cu.Password,
		"OrderID":  cu.OrderID,
	}
}

func customerFromRecord(r Record) Customer {
	return Customer{
		RecordID: r.ID,
		CID:      stringField(r.Fields, "CID"),
		Name:     stringField(r.Fields, "Name"),
		Phone:    stringField(r.Fields, "Phone"),
		Address:  stringField(r.Fields, "Address"),
		City:     stringField(r.Fields, "City"),
		State:    stringField(r.Fields, "State"),
		ZipCode:  stringField(r.Fields, "ZipCode"),
		Username: stringField(r.Fields, "Username"),
		Password: stringField(r.Fields, "Password"),
		OrderID:  stringField(r.Fields, "OrderID"),
	}
}

type CustomerRepository struct {
	client *Client
	table  Table
}

func NewCustomerRepository(client *Client, cfg config.RecordStore) *CustomerRepository {
	return &CustomerRepository{
		client: client,
		table:  Table{BaseID: cfg.CustomerBaseID, TableID: cfg.CustomerTableID},
	}
}

func (r *CustomerRepository) List(c context.Context) ([]Customer, error) {
	records, err := r.client.List(c, r.table)
	if err != nil {
		return nil, fmt.Errorf("failed listing customers with error=%w", err)
	}
	customers := make([]Customer, 0, len(records))
	for _, record := range records {
		customers = append(customers, customerFromRecord(record))
	}
	return customers, nil
}

// FindByUsername returns nil when no customer has the username.
func (r *CustomerRepository) FindByUsername(
	c context.Context,
	username string,
) (*Customer, error) {
	record, err := r.client.FindByField(c, r.table, "Username", username)
	if err != nil {
		return nil, fmt.Errorf("failed finding customer by username with error=%w", err)
	}
	if record == nil {
		return nil, nil
	}
	customer := customerFromRecord(*record)
	return &customer, nil
}

func (r *CustomerRepository) Create(c context.Context, customer Customer) (Customer, error) {
	record, err := r.client.Create(c, r.table, customer.fields())
	if err != nil {
		return Customer{}, fmt.Errorf("failed creating customer with error=%w", err)
	}
	return customerFromRecord(record), nil
}

func (r *CustomerRepository) Update(
	c context.Context,
	recordID string,
	fields map[string]interface{},
) (Customer, error) {
	record, err := r.client.Update(c, r.table, recordID, fields)
	if err != nil {
		return Customer{}, fmt.Errorf(
			"failed updating customer recordId=%s with error=%w",
			recordID,
			err,
		)
	}
	return customerFromRecord(record), nil
}

func stringField(fields map[string]interface{}, key string) string {
	v, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return v
}
