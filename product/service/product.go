package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/product/otel"
	"github.com/tbestore/storefront/product/pkg/response"
)

var sizes = []string{"S", "M", "L", "XL"}

// catalog is the fixed product listing. There is no product table in the
// record store; orders reference products by name only.
var catalog = []response.Product{
	{
		ID:              "1",
		Name:            "Minimal Heavyweight Hoodie",
		Price:           decimal.NewFromInt(65),
		OriginalPrice:   price(74),
		DiscountPercent: 12,
		Category:        "hoodies",
		ImageRef:        "/lovable-uploads/hoodie-minimal.png",
		Sizes:           sizes,
	},
	{
		ID:              "2",
		Name:            "Modern Oversized Tee",
		Price:           decimal.NewFromInt(42),
		OriginalPrice:   price(53),
		DiscountPercent: 21,
		Category:        "tees",
		ImageRef:        "/lovable-uploads/tee-modern.png",
		Sizes:           sizes,
	},
	{
		ID:              "3",
		Name:            "Iconic Washed Oversized Tee",
		Price:           decimal.NewFromInt(47),
		OriginalPrice:   price(57),
		DiscountPercent: 18,
		Category:        "tees",
		ImageRef:        "/lovable-uploads/tee-iconic.png",
		Sizes:           sizes,
	},
	{
		ID:              "4",
		Name:            "Celestial 2.0 Heavyweight Tee",
		Price:           decimal.NewFromInt(45),
		OriginalPrice:   price(53),
		DiscountPercent: 15,
		Category:        "tees",
		ImageRef:        "/lovable-uploads/tee-celestial.png",
		Sizes:           sizes,
	},
	{
		ID:       "5",
		Name:     "Essential Black Tee",
		Price:    decimal.NewFromInt(35),
		Category: "tees",
		ImageRef: "/lovable-uploads/tee-essential.png",
		Sizes:    sizes,
	},
	{
		ID:              "6",
		Name:            "Urban Design Tee",
		Price:           decimal.NewFromInt(40),
		OriginalPrice:   price(50),
		DiscountPercent: 20,
		Category:        "tees",
		ImageRef:        "/lovable-uploads/tee-urban.png",
		Sizes:           sizes,
	},
	{
		ID:              "7",
		Name:            "Monochrome Series Tee",
		Price:           decimal.NewFromInt(39),
		OriginalPrice:   price(45),
		DiscountPercent: 13,
		Category:        "tees",
		ImageRef:        "/lovable-uploads/tee-monochrome.png",
		Sizes:           sizes,
	},
	{
		ID:              "8",
		Name:            "Limited Edition Heavyweight Hoodie",
		Price:           decimal.NewFromInt(70),
		OriginalPrice:   price(85),
		DiscountPercent: 18,
		Category:        "hoodies",
		ImageRef:        "/lovable-uploads/hoodie-limited.png",
		Sizes:           sizes,
	},
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

type ProductService struct{}

func NewProductService() *ProductService {
	return &ProductService{}
}

func (s *ProductService) List(c context.Context) response.Products {
	_, span := otel.Tracer.Start(c, "ProductService List")
	defer span.End()

	products := make([]response.Product, len(catalog))
	copy(products, catalog)
	return response.Products{Products: products}
}

func (s *ProductService) FindById(c context.Context, id string) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindById").
		Str(log.KeyProductID, id).
		Logger()

	for _, product := range catalog {
		if product.ID == id {
			return product, nil
		}
	}

	err := fmt.Errorf("failed finding product with id=%s with error=%w", id, commonErrors.ErrProductNotFound)
	commonErrors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return response.Product{}, err
}
