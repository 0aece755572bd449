package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tbestore/storefront/cart/otel"
	"github.com/tbestore/storefront/cart/pkg/request"
	"github.com/tbestore/storefront/cart/pkg/response"
	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/internal/session"
)

type CartService struct {
	sessions *session.Store
}

func NewCartService(sessions *session.Store) *CartService {
	return &CartService{sessions: sessions}
}

func (s *CartService) Cart(c context.Context, sessionID string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Cart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Cart").
		Str(log.KeyProcess, "rehydrating cart").
		Logger()

	logger.Info().Msg("rehydrating cart")
	items, err := s.sessions.Cart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed rehydrating cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Int(log.KeyCartItems, len(items)).Msg("rehydrated cart")

	return response.NewCart(items), nil
}

// AddItem merges on the (productId, size) key. The returned flag reports
// whether an existing line's quantity was updated instead of a new line
// appended.
func (s *CartService) AddItem(
	c context.Context,
	sessionID string,
	param request.AddItem,
) (response.Cart, bool, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyProductID, param.ProductId).
		Str(log.KeySize, param.Size).
		Int(log.KeyQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "rehydrating cart").Logger()
	logger.Info().Msg("rehydrating cart")
	items, err := s.sessions.Cart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed rehydrating cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, false, err
	}
	logger.Info().Msg("rehydrated cart")

	logger = logger.With().Str(log.KeyProcess, "merging cart item").Logger()
	logger.Info().Msg("merging cart item")
	items, merged := mergeItem(items, session.CartItem{
		ProductID: param.ProductId,
		Name:      param.Name,
		UnitPrice: param.UnitPrice,
		ImageRef:  param.ImageRef,
		Size:      param.Size,
		Quantity:  param.Quantity,
	})
	logger.Info().Bool("merged", merged).Msg("merged cart item")

	logger = logger.With().Str(log.KeyProcess, "persisting cart").Logger()
	logger.Info().Msg("persisting cart")
	if err = s.sessions.SaveCart(c, sessionID, items); err != nil {
		err = fmt.Errorf("failed persisting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, false, err
	}
	logger.Info().Msg("persisted cart")

	return response.NewCart(items), merged, nil
}

// UpdateQuantity replaces the matching line's quantity. Quantities below 1
// are a no-op; deletion goes through RemoveItem.
func (s *CartService) UpdateQuantity(
	c context.Context,
	sessionID string,
	param request.UpdateQuantity,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyProductID, param.ProductId).
		Str(log.KeySize, param.Size).
		Int(log.KeyQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "rehydrating cart").Logger()
	logger.Info().Msg("rehydrating cart")
	items, err := s.sessions.Cart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed rehydrating cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("rehydrated cart")

	if param.Quantity < 1 {
		logger.Info().Msg("quantity below 1, leaving cart unchanged")
		return response.NewCart(items), nil
	}

	logger = logger.With().Str(log.KeyProcess, "updating quantity").Logger()
	logger.Info().Msg("updating quantity")
	for i, item := range items {
		if item.ProductID == param.ProductId && item.Size == param.Size {
			items[i].Quantity = param.Quantity
			break
		}
	}
	logger.Info().Msg("updated quantity")

	logger = logger.With().Str(log.KeyProcess, "persisting cart").Logger()
	logger.Info().Msg("persisting cart")
	if err = s.sessions.SaveCart(c, sessionID, items); err != nil {
		err = fmt.Errorf("failed persisting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("persisted cart")

	return response.NewCart(items), nil
}

func (s *CartService) RemoveItem(
	c context.Context,
	sessionID string,
	param request.RemoveItem,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyProductID, param.ProductId).
		Str(log.KeySize, param.Size).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "rehydrating cart").Logger()
	logger.Info().Msg("rehydrating cart")
	items, err := s.sessions.Cart(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed rehydrating cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("rehydrated cart")

	logger = logger.With().Str(log.KeyProcess, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	filtered := make([]session.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == param.ProductId && item.Size == param.Size {
			continue
		}
		filtered = append(filtered, item)
	}
	logger.Info().Msg("removed cart item")

	logger = logger.With().Str(log.KeyProcess, "persisting cart").Logger()
	logger.Info().Msg("persisting cart")
	if err = s.sessions.SaveCart(c, sessionID, filtered); err != nil {
		err = fmt.Errorf("failed persisting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("persisted cart")

	return response.NewCart(filtered), nil
}

func (s *CartService) Clear(c context.Context, sessionID string) error {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	if err := s.sessions.ClearCart(c, sessionID); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared cart")

	return nil
}

// mergeItem increments the quantity of an existing (productId, size) line or
// appends the item, preserving insertion order for display.
func mergeItem(items []session.CartItem, item session.CartItem) ([]session.CartItem, bool) {
	for i, existing := range items {
		if existing.ProductID == item.ProductID && existing.Size == item.Size {
			items[i].Quantity += item.Quantity
			return items, true
		}
	}
	return append(items, item), false
}
