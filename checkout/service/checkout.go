package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	cartResponse "github.com/tbestore/storefront/cart/pkg/response"
	"github.com/tbestore/storefront/checkout/otel"
	"github.com/tbestore/storefront/checkout/pkg/request"
	"github.com/tbestore/storefront/checkout/pkg/response"
	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/internal/recordstore"
	"github.com/tbestore/storefront/internal/session"
)

type CheckoutService struct {
	sessions  *session.Store
	customers *recordstore.CustomerRepository
	orders    *recordstore.OrderRepository
}

func NewCheckoutService(
	sessions *session.Store,
	customers *recordstore.CustomerRepository,
	orders *recordstore.OrderRepository,
) *CheckoutService {
	return &CheckoutService{sessions: sessions, customers: customers, orders: orders}
}

// Checkout turns the session cart into a persisted order and appends the new
// order id to the customer's order history. The two record-store writes are
// sequential with no transactional boundary: when the customer update fails
// the order record already exists and the cart stays intact for a retry.
func (s *CheckoutService) Checkout(
	c context.Context,
	sessionID string,
	param request.Checkout,
) (response.Checkout, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Checkout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "loading session customer").Logger()
	logger.Info().Msg("loading session customer")
	customer, err := s.sessions.Customer(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed loading session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	if customer == nil {
		err = commonErrors.ErrSessionNotFound
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	if customer.RecordID == "" {
		err = commonErrors.ErrNoCustomerRecord
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger = logger.With().Str(log.KeyCustomerID, customer.CID).Logger()
	logger.Info().Msg("loaded session customer")

	logger = logger.With().Str(log.KeyProcess, "rehydrating cart").Logger()
	logger.Info().Msg("rehydrating cart")
	items, err := s.sessions.Cart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed rehydrating cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	if len(items) == 0 {
		err = commonErrors.ErrEmptyCart
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Int(log.KeyCartItems, len(items)).Msg("rehydrated cart")

	cart := cartResponse.NewCart(items)
	orderID := NewOrderID()
	now := time.Now()
	order := recordstore.Order{
		OrderID:       orderID,
		Products:      ProductsDescription(items),
		TotalQuantity: cart.Count,
		TotalAmount:   cart.Total,
		CID:           customer.CID,
		Date:          now.Format("2006-01-02"),
		Time:          now.Format("15:04:05"),
	}

	logger = logger.With().
		Str(log.KeyProcess, "persisting order").
		Str(log.KeyOrderID, orderID).
		Logger()
	logger.Info().Msg("persisting order")
	created, err := s.orders.Create(c, order)
	if err != nil {
		err = fmt.Errorf("failed persisting order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("persisted order")

	logger = logger.With().Str(log.KeyProcess, "updating customer order history").Logger()
	logger.Info().Msg("updating customer order history")
	fields := map[string]interface{}{
		"OrderID": customer.AppendOrderID(orderID),
	}
	if param.Name != "" {
		fields["Name"] = param.Name
	}
	if param.Phone != "" {
		fields["Phone"] = param.Phone
	}
	if param.Address != "" {
		fields["Address"] = param.Address
	}
	if param.City != "" {
		fields["City"] = param.City
	}
	if param.State != "" {
		fields["State"] = param.State
	}
	if param.ZipCode != "" {
		fields["ZipCode"] = param.ZipCode
	}
	updated, err := s.customers.Update(c, customer.RecordID, fields)
	if err != nil {
		err = fmt.Errorf("failed updating customer order history with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("updated customer order history")

	logger = logger.With().Str(log.KeyProcess, "refreshing session customer").Logger()
	logger.Info().Msg("refreshing session customer")
	if err = s.sessions.SaveCustomer(c, sessionID, updated); err != nil {
		err = fmt.Errorf("failed refreshing session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("refreshed session customer")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	if err = s.sessions.ClearCart(c, sessionID); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("cleared cart")

	logger = logger.With().Str(log.KeyProcess, "stashing last order id").Logger()
	logger.Info().Msg("stashing last order id")
	if err = s.sessions.StashLastOrderID(c, sessionID, orderID); err != nil {
		err = fmt.Errorf("failed stashing last order id with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}
	logger.Info().Msg("stashed last order id")

	return response.Checkout{OrderId: orderID, Order: created}, nil
}

// Confirmation returns the stashed order id for the confirmation view,
// erasing it so a reload shows nothing.
func (s *CheckoutService) Confirmation(c context.Context, sessionID string) (string, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Confirmation")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Confirmation").
		Str(log.KeyProcess, "taking last order id").
		Logger()

	logger.Info().Msg("taking last order id")
	orderID, err := s.sessions.TakeLastOrderID(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed taking last order id with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Str(log.KeyOrderID, orderID).Msg("took last order id")

	return orderID, nil
}

// ProductsDescription flattens the line items into the order record's
// human-readable product listing: items grouped by product name, then by
// size with summed quantities, rendered as `Name [Size - QtyN, ...]` and
// comma-joined across products. First-appearance order is preserved at both
// levels.
func ProductsDescription(items []session.CartItem) string {
	names := []string{}
	sizes := map[string][]string{}
	quantities := map[string]map[string]int{}
	for _, item := range items {
		if quantities[item.Name] == nil {
			quantities[item.Name] = map[string]int{}
			names = append(names, item.Name)
		}
		if _, ok := quantities[item.Name][item.Size]; !ok {
			sizes[item.Name] = append(sizes[item.Name], item.Size)
		}
		quantities[item.Name][item.Size] += item.Quantity
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		sizeParts := make([]string, 0, len(sizes[name]))
		for _, size := range sizes[name] {
			sizeParts = append(sizeParts, fmt.Sprintf("%s - %dN", size, quantities[name][size]))
		}
		parts = append(parts, fmt.Sprintf("%s [%s]", name, strings.Join(sizeParts, ", ")))
	}
	return strings.Join(parts, ", ")
}

// NewOrderID generates "TBE-" plus six random digits. There is no collision
// check against existing orders.
func NewOrderID() string {
	return fmt.Sprintf("TBE-%d", 100000+rand.IntN(900000))
}
