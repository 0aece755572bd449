package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbestore/storefront/cart/pkg/request"
	"github.com/tbestore/storefront/cart/pkg/response"
	"github.com/tbestore/storefront/internal/session"
)

func addItem(productID, name string, price int64, size string, quantity int) request.AddItem {
	return request.AddItem{
		ProductId: productID,
		Name:      name,
		UnitPrice: decimal.NewFromInt(price),
		Size:      size,
		Quantity:  quantity,
	}
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name          string
		adds          []request.AddItem
		expectedItems int
		expectedCount int
		expectedTotal decimal.Decimal
	}{
		{
			name: "given distinct items should keep one line per product and size",
			adds: []request.AddItem{
				addItem("1", "Minimal Heavyweight Hoodie", 65, "M", 1),
				addItem("1", "Minimal Heavyweight Hoodie", 65, "L", 1),
				addItem("2", "Modern Oversized Tee", 42, "M", 2),
			},
			expectedItems: 3,
			expectedCount: 4,
			expectedTotal: decimal.NewFromInt(65 + 65 + 42*2),
		},
		{
			name: "given same product and size should merge quantities",
			adds: []request.AddItem{
				addItem("2", "Modern Oversized Tee", 42, "M", 1),
				addItem("2", "Modern Oversized Tee", 42, "M", 2),
			},
			expectedItems: 1,
			expectedCount: 3,
			expectedTotal: decimal.NewFromInt(42 * 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := context.Background()
			redisClient, redisContainer, _, cartService := setup(t)(c)
			defer teardown(t)(redisClient, redisContainer)

			sessionID := "session-add"
			var cart response.Cart
			var err error
			for _, add := range tt.adds {
				cart, _, err = cartService.AddItem(c, sessionID, add)
				require.NoError(t, err)
			}

			assert.Len(t, cart.Items, tt.expectedItems)
			assert.Equal(t, tt.expectedCount, cart.Count)
			assert.True(t, tt.expectedTotal.Equal(cart.Total), "expected total %s got %s", tt.expectedTotal, cart.Total)

			seen := map[[2]string]bool{}
			for _, item := range cart.Items {
				key := [2]string{item.ProductID, item.Size}
				assert.False(t, seen[key], "duplicate line for %v", key)
				seen[key] = true
			}
		})
	}
}

func TestAddItemReportsMerge(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer)

	sessionID := "session-merge"
	_, merged, err := cartService.AddItem(c, sessionID, addItem("1", "Minimal Heavyweight Hoodie", 65, "M", 1))
	require.NoError(t, err)
	assert.False(t, merged)

	_, merged, err = cartService.AddItem(c, sessionID, addItem("1", "Minimal Heavyweight Hoodie", 65, "M", 1))
	require.NoError(t, err)
	assert.True(t, merged)
}

func TestUpdateQuantity(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer)

	sessionID := "session-update"
	_, _, err := cartService.AddItem(c, sessionID, addItem("1", "Minimal Heavyweight Hoodie", 65, "M", 2))
	require.NoError(t, err)

	cart, err := cartService.UpdateQuantity(c, sessionID, request.UpdateQuantity{
		ProductId: "1",
		Size:      "M",
		Quantity:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Count)
	assert.True(t, decimal.NewFromInt(65*5).Equal(cart.Total))

	cart, err = cartService.UpdateQuantity(c, sessionID, request.UpdateQuantity{
		ProductId: "1",
		Size:      "M",
		Quantity:  0,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Count, "quantity below one leaves the line unchanged")
}

func TestRemoveItem(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer)

	sessionID := "session-remove"
	_, _, err := cartService.AddItem(c, sessionID, addItem("1", "Minimal Heavyweight Hoodie", 65, "M", 2))
	require.NoError(t, err)
	_, _, err = cartService.AddItem(c, sessionID, addItem("1", "Minimal Heavyweight Hoodie", 65, "L", 1))
	require.NoError(t, err)

	cart, err := cartService.RemoveItem(c, sessionID, request.RemoveItem{ProductId: "1", Size: "M"})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "L", cart.Items[0].Size)

	cart, err = cartService.RemoveItem(c, sessionID, request.RemoveItem{ProductId: "9", Size: "M"})
	require.NoError(t, err, "removing an absent line is not an error")
	assert.Len(t, cart.Items, 1)

	cart, _, err = cartService.AddItem(c, sessionID, addItem("1", "Minimal Heavyweight Hoodie", 65, "M", 1))
	require.NoError(t, err)
	for _, item := range cart.Items {
		if item.ProductID == "1" && item.Size == "M" {
			assert.Equal(t, 1, item.Quantity, "re-added line starts fresh")
		}
	}
}

func TestCartSurvivesRoundTrip(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, sessions, cartService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer)

	sessionID := "session-roundtrip"
	_, _, err := cartService.AddItem(c, sessionID, addItem("3", "Iconic Washed Oversized Tee", 47, "S", 2))
	require.NoError(t, err)

	items, err := sessions.Cart(c, sessionID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, session.CartItem{
		ProductID: "3",
		Name:      "Iconic Washed Oversized Tee",
		UnitPrice: items[0].UnitPrice,
		Size:      "S",
		Quantity:  2,
	}, items[0])
	assert.True(t, decimal.NewFromInt(47).Equal(items[0].UnitPrice))
}

func TestCartDiscardsMalformedState(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer)

	sessionID := "session-malformed"
	require.NoError(t, redisClient.Set(c, "tbe:cart:"+sessionID, "{not json", 0).Err())

	cart, err := cartService.Cart(c, sessionID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.Count)

	exists, err := redisClient.Exists(c, "tbe:cart:"+sessionID).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 0, exists, "malformed state is deleted")
}

func TestClear(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer)

	sessionID := "session-clear"
	_, _, err := cartService.AddItem(c, sessionID, addItem("1", "Minimal Heavyweight Hoodie", 65, "M", 1))
	require.NoError(t, err)

	require.NoError(t, cartService.Clear(c, sessionID))

	cart, err := cartService.Cart(c, sessionID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
