package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tbestore/storefront/admin/otel"
	"github.com/tbestore/storefront/admin/pkg/response"
	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/internal/recordstore"
)

type AdminService struct {
	customers *recordstore.CustomerRepository
	orders    *recordstore.OrderRepository
}

func NewAdminService(
	customers *recordstore.CustomerRepository,
	orders *recordstore.OrderRepository,
) *AdminService {
	return &AdminService{customers: customers, orders: orders}
}

// Customers lists all customer records, optionally filtered by a
// case-insensitive substring match over name, username and phone.
func (s *AdminService) Customers(c context.Context, query string) (response.Customers, error) {
	c, span := otel.Tracer.Start(c, "AdminService Customers")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminService Customers").
		Str(log.KeyProcess, "listing customers").
		Logger()

	logger.Info().Msg("listing customers")
	customers, err := s.customers.List(c)
	if err != nil {
		err = fmt.Errorf("failed listing customers with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Customers{}, err
	}
	logger.Info().Int("customerCount", len(customers)).Msg("listed customers")

	if query == "" {
		return response.Customers{Customers: customers}, nil
	}

	needle := strings.ToLower(query)
	filtered := make([]recordstore.Customer, 0, len(customers))
	for _, customer := range customers {
		if strings.Contains(strings.ToLower(customer.Name), needle) ||
			strings.Contains(strings.ToLower(customer.Username), needle) ||
			strings.Contains(strings.ToLower(customer.Phone), needle) {
			filtered = append(filtered, customer)
		}
	}
	return response.Customers{Customers: filtered}, nil
}

// Orders lists order records, optionally narrowed to a customer id and
// filtered by a case-insensitive substring match over order id, customer id
// and the product listing.
func (s *AdminService) Orders(
	c context.Context,
	cid string,
	query string,
) (response.Orders, error) {
	c, span := otel.Tracer.Start(c, "AdminService Orders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminService Orders").
		Str(log.KeyProcess, "listing orders").
		Logger()

	logger.Info().Msg("listing orders")
	var orders []recordstore.Order
	var err error
	if cid != "" {
		orders, err = s.orders.FindByCustomerId(c, cid)
	} else {
		orders, err = s.orders.List(c)
	}
	if err != nil {
		err = fmt.Errorf("failed listing orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}
	logger.Info().Int("orderCount", len(orders)).Msg("listed orders")

	if query == "" {
		return response.Orders{Orders: orders}, nil
	}

	needle := strings.ToLower(query)
	filtered := make([]recordstore.Order, 0, len(orders))
	for _, order := range orders {
		if strings.Contains(strings.ToLower(order.OrderID), needle) ||
			strings.Contains(strings.ToLower(order.CID), needle) ||
			strings.Contains(strings.ToLower(order.Products), needle) {
			filtered = append(filtered, order)
		}
	}
	return response.Orders{Orders: filtered}, nil
}
