package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/tbestore/storefront/internal/common/errors"
)

func TestList(t *testing.T) {
	productService := NewProductService()

	products := productService.List(context.Background())
	require.Len(t, products.Products, 8)

	for _, product := range products.Products {
		assert.NotEmpty(t, product.ID)
		assert.NotEmpty(t, product.Name)
		assert.True(t, product.Price.GreaterThan(decimal.Zero))
		assert.Equal(t, []string{"S", "M", "L", "XL"}, product.Sizes)
		if product.OriginalPrice != nil {
			assert.True(t, product.OriginalPrice.GreaterThan(product.Price))
			assert.Positive(t, product.DiscountPercent)
		}
	}
}

func TestFindById(t *testing.T) {
	productService := NewProductService()

	product, err := productService.FindById(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Essential Black Tee", product.Name)
	assert.True(t, decimal.NewFromInt(35).Equal(product.Price))
	assert.Nil(t, product.OriginalPrice)

	_, err = productService.FindById(context.Background(), "99")
	assert.ErrorIs(t, err, commonErrors.ErrProductNotFound)
}
