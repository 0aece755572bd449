package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbestore/storefront/internal/config"
	"github.com/tbestore/storefront/internal/recordstore"
	"github.com/tbestore/storefront/internal/recordstore/recordstoretest"
)

const (
	testCustomerBase  = "appCustomers"
	testCustomerTable = "tblCustomers"
	testOrderBase     = "appOrders"
	testOrderTable    = "tblOrders"
)

func newAdminService(fake *recordstoretest.Fake) *AdminService {
	cfg := config.RecordStore{
		URL:             fake.Server.URL,
		Token:           "test-token",
		CustomerBaseID:  testCustomerBase,
		CustomerTableID: testCustomerTable,
		OrderBaseID:     testOrderBase,
		OrderTableID:    testOrderTable,
	}
	client := recordstore.NewClient(cfg)
	return NewAdminService(
		recordstore.NewCustomerRepository(client, cfg),
		recordstore.NewOrderRepository(client, cfg),
	)
}

func seedCustomers(fake *recordstoretest.Fake) {
	fake.Seed(testCustomerBase, testCustomerTable, "recCust01", map[string]interface{}{
		"CID": "CUST-100001", "Name": "Jordan Avery", "Username": "jordan", "Phone": "555-0101",
	})
	fake.Seed(testCustomerBase, testCustomerTable, "recCust02", map[string]interface{}{
		"CID": "CUST-100002", "Name": "Sam Reed", "Username": "sam", "Phone": "555-0202",
	})
}

func seedOrders(fake *recordstoretest.Fake) {
	fake.Seed(testOrderBase, testOrderTable, "recOrd01", map[string]interface{}{
		"OrderID": "TBE-111111", "CID": "CUST-100001", "Products": "Modern Oversized Tee [M - 1N]",
	})
	fake.Seed(testOrderBase, testOrderTable, "recOrd02", map[string]interface{}{
		"OrderID": "TBE-222222", "CID": "CUST-100002", "Products": "Minimal Heavyweight Hoodie [L - 2N]",
	})
}

func TestAdminCustomers(t *testing.T) {
	fake := recordstoretest.New()
	defer fake.Close()
	seedCustomers(fake)
	adminService := newAdminService(fake)

	c := context.Background()

	all, err := adminService.Customers(c, "")
	require.NoError(t, err)
	assert.Len(t, all.Customers, 2)

	byName, err := adminService.Customers(c, "jordan")
	require.NoError(t, err)
	require.Len(t, byName.Customers, 1)
	assert.Equal(t, "CUST-100001", byName.Customers[0].CID)

	byPhone, err := adminService.Customers(c, "0202")
	require.NoError(t, err)
	require.Len(t, byPhone.Customers, 1)
	assert.Equal(t, "CUST-100002", byPhone.Customers[0].CID)

	none, err := adminService.Customers(c, "nomatch")
	require.NoError(t, err)
	assert.Empty(t, none.Customers)
}

func TestAdminOrders(t *testing.T) {
	fake := recordstoretest.New()
	defer fake.Close()
	seedOrders(fake)
	adminService := newAdminService(fake)

	c := context.Background()

	all, err := adminService.Orders(c, "", "")
	require.NoError(t, err)
	assert.Len(t, all.Orders, 2)

	byCID, err := adminService.Orders(c, "CUST-100001", "")
	require.NoError(t, err)
	require.Len(t, byCID.Orders, 1)
	assert.Equal(t, "TBE-111111", byCID.Orders[0].OrderID)

	byProduct, err := adminService.Orders(c, "", "hoodie")
	require.NoError(t, err)
	require.Len(t, byProduct.Orders, 1)
	assert.Equal(t, "TBE-222222", byProduct.Orders[0].OrderID)

	byOrderID, err := adminService.Orders(c, "CUST-100002", "TBE-222222")
	require.NoError(t, err)
	assert.Len(t, byOrderID.Orders, 1)
}
