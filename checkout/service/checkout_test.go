package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbestore/storefront/checkout/pkg/request"
	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	"github.com/tbestore/storefront/internal/recordstore"
	"github.com/tbestore/storefront/internal/session"
)

func TestProductsDescription(t *testing.T) {
	tests := []struct {
		name     string
		items    []session.CartItem
		expected string
	}{
		{
			name: "single line",
			items: []session.CartItem{
				{Name: "Modern Oversized Tee", Size: "M", Quantity: 1},
			},
			expected: "Modern Oversized Tee [M - 1N]",
		},
		{
			name: "sizes grouped under one product",
			items: []session.CartItem{
				{Name: "Modern Oversized Tee", Size: "M", Quantity: 2},
				{Name: "Modern Oversized Tee", Size: "L", Quantity: 1},
			},
			expected: "Modern Oversized Tee [M - 2N, L - 1N]",
		},
		{
			name: "products keep first-appearance order",
			items: []session.CartItem{
				{Name: "Minimal Heavyweight Hoodie", Size: "L", Quantity: 1},
				{Name: "Modern Oversized Tee", Size: "M", Quantity: 2},
				{Name: "Minimal Heavyweight Hoodie", Size: "M", Quantity: 1},
			},
			expected: "Minimal Heavyweight Hoodie [L - 1N, M - 1N], Modern Oversized Tee [M - 2N]",
		},
		{
			name: "same product and size quantities are summed",
			items: []session.CartItem{
				{Name: "Essential Black Tee", Size: "S", Quantity: 1},
				{Name: "Essential Black Tee", Size: "S", Quantity: 2},
			},
			expected: "Essential Black Tee [S - 3N]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProductsDescription(tt.items))
		})
	}
}

func TestNewOrderID(t *testing.T) {
	pattern := regexp.MustCompile(`^TBE-\d{6}$`)
	for range 100 {
		id := NewOrderID()
		assert.Regexp(t, pattern, id)
	}
}

func TestCheckout(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, checkoutService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	fake.Seed(testCustomerBase, testCustomerTable, "recCust01", map[string]interface{}{
		"CID":      "CUST-100001",
		"Name":     "Jordan Avery",
		"Username": "jordan",
		"OrderID":  "",
	})

	sessionID := "session-checkout"
	require.NoError(t, sessions.SaveCustomer(c, sessionID, recordstore.Customer{
		RecordID: "recCust01",
		CID:      "CUST-100001",
		Name:     "Jordan Avery",
		Username: "jordan",
	}))
	require.NoError(t, sessions.SaveCart(c, sessionID, []session.CartItem{
		{
			ProductID: "1",
			Name:      "Minimal Heavyweight Hoodie",
			UnitPrice: decimal.NewFromInt(65),
			Size:      "M",
			Quantity:  2,
		},
		{
			ProductID: "2",
			Name:      "Modern Oversized Tee",
			UnitPrice: decimal.NewFromInt(42),
			Size:      "L",
			Quantity:  1,
		},
	}))

	checkout, err := checkoutService.Checkout(c, sessionID, request.Checkout{Address: "12 River Road"})
	require.NoError(t, err)
	assert.Regexp(t, `^TBE-\d{6}$`, checkout.OrderId)
	assert.Equal(t, "Minimal Heavyweight Hoodie [M - 2N], Modern Oversized Tee [L - 1N]", checkout.Order.Products)
	assert.Equal(t, 3, checkout.Order.TotalQuantity)
	assert.True(t, decimal.NewFromInt(65*2+42).Equal(checkout.Order.TotalAmount))
	assert.Equal(t, "CUST-100001", checkout.Order.CID)

	orders := fake.Records(testOrderBase, testOrderTable)
	require.Len(t, orders, 1)
	assert.Equal(t, checkout.OrderId, orders[0].Fields["OrderID"])

	customers := fake.Records(testCustomerBase, testCustomerTable)
	require.Len(t, customers, 1)
	assert.Equal(t, checkout.OrderId, customers[0].Fields["OrderID"])
	assert.Equal(t, "12 River Road", customers[0].Fields["Address"])

	items, err := sessions.Cart(c, sessionID)
	require.NoError(t, err)
	assert.Empty(t, items, "cart is cleared after checkout")

	cached, err := sessions.Customer(c, sessionID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, []string{checkout.OrderId}, cached.OrderIDs())

	confirmation, err := checkoutService.Confirmation(c, sessionID)
	require.NoError(t, err)
	assert.Equal(t, checkout.OrderId, confirmation)

	confirmation, err = checkoutService.Confirmation(c, sessionID)
	require.NoError(t, err)
	assert.Empty(t, confirmation, "confirmation reads once")
}

func TestCheckoutAppendsToExistingOrderHistory(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, checkoutService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	fake.Seed(testCustomerBase, testCustomerTable, "recCust02", map[string]interface{}{
		"CID":      "CUST-100002",
		"Name":     "Sam Reed",
		"Username": "sam",
		"OrderID":  "TBE-111111",
	})

	sessionID := "session-append"
	require.NoError(t, sessions.SaveCustomer(c, sessionID, recordstore.Customer{
		RecordID: "recCust02",
		CID:      "CUST-100002",
		Name:     "Sam Reed",
		Username: "sam",
		OrderID:  "TBE-111111",
	}))
	require.NoError(t, sessions.SaveCart(c, sessionID, []session.CartItem{
		{
			ProductID: "5",
			Name:      "Essential Black Tee",
			UnitPrice: decimal.NewFromInt(35),
			Size:      "S",
			Quantity:  1,
		},
	}))

	checkout, err := checkoutService.Checkout(c, sessionID, request.Checkout{})
	require.NoError(t, err)

	customers := fake.Records(testCustomerBase, testCustomerTable)
	require.Len(t, customers, 1)
	assert.Equal(t, "TBE-111111,"+checkout.OrderId, customers[0].Fields["OrderID"])
}

func TestCheckoutPreconditions(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, checkoutService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	_, err := checkoutService.Checkout(c, "session-guest", request.Checkout{})
	assert.ErrorIs(t, err, commonErrors.ErrSessionNotFound)

	adminSession := "session-admin"
	require.NoError(t, sessions.SaveCustomer(c, adminSession, recordstore.Customer{
		CID:      "admin",
		Name:     "Admin",
		Username: "admincontrol@5678",
	}))
	_, err = checkoutService.Checkout(c, adminSession, request.Checkout{})
	assert.ErrorIs(t, err, commonErrors.ErrNoCustomerRecord)

	emptyCartSession := "session-empty"
	require.NoError(t, sessions.SaveCustomer(c, emptyCartSession, recordstore.Customer{
		RecordID: "recCust03",
		CID:      "CUST-100003",
		Name:     "Riley Chen",
		Username: "riley",
	}))
	_, err = checkoutService.Checkout(c, emptyCartSession, request.Checkout{})
	assert.ErrorIs(t, err, commonErrors.ErrEmptyCart)

	orders := fake.Records(testOrderBase, testOrderTable)
	assert.Empty(t, orders, "no order is created when preconditions fail")
}

func TestCheckoutKeepsCartWhenPersistenceFails(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, checkoutService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	// Customer exists only in the session, so the history update 404s after
	// the order record is written.
	sessionID := "session-stale"
	require.NoError(t, sessions.SaveCustomer(c, sessionID, recordstore.Customer{
		RecordID: "recGone",
		CID:      "CUST-100004",
		Name:     "Drew Fox",
		Username: "drew",
	}))
	require.NoError(t, sessions.SaveCart(c, sessionID, []session.CartItem{
		{
			ProductID: "6",
			Name:      "Urban Design Tee",
			UnitPrice: decimal.NewFromInt(40),
			Size:      "M",
			Quantity:  1,
		},
	}))

	_, err := checkoutService.Checkout(c, sessionID, request.Checkout{})
	require.Error(t, err)
	var storeErr *recordstore.Error
	assert.ErrorAs(t, err, &storeErr)

	items, err := sessions.Cart(c, sessionID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "cart stays intact for a retry")
}
