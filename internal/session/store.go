package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/internal/recordstore"
)

var tracer = otel.Tracer("session")

const (
	keyCustomer    = "tbe:user:%s"
	keyCart        = "tbe:cart:%s"
	keyLastOrderID = "tbe:last_order_id:%s"
	keyHasVisited  = "tbe:has_visited:%s"
)

// CartItem is one line of the session cart, unique per (ProductID, Size).
type CartItem struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name"      validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
	ImageRef  string          `json:"imageRef"`
	Size      string          `json:"size"      validate:"required"`
	Quantity  int             `json:"quantity"  validate:"required,min=1"`
}

// Store is the durable per-session key-value state, one logical writer per
// session id.
type Store struct {
	cache *redis.Client
}

func NewStore(cache *redis.Client) *Store {
	return &Store{cache: cache}
}

// Cart rehydrates the session's line items. Malformed stored content is
// discarded and the cart resets to empty instead of propagating.
func (s *Store) Cart(c context.Context, sessionID string) ([]CartItem, error) {
	c, span := tracer.Start(c, "Store Cart")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCart, sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store Cart").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	raw, err := s.cache.Get(c, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return []CartItem{}, nil
	}
	if err != nil {
		err = fmt.Errorf("failed reading cart from store with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	items := []CartItem{}
	if err = json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn().Err(err).Msg("discarding malformed stored cart")
		if delErr := s.cache.Del(c, cacheKey).Err(); delErr != nil {
			commonErrors.HandleError(delErr, span)
			logger.Error().Err(delErr).Msg("failed deleting malformed stored cart")
		}
		return []CartItem{}, nil
	}
	return items, nil
}

func (s *Store) SaveCart(c context.Context, sessionID string, items []CartItem) error {
	c, span := tracer.Start(c, "Store SaveCart")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCart, sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store SaveCart").
		Str(log.KeyCacheKey, cacheKey).
		Int(log.KeyCartItems, len(items)).
		Logger()

	raw, err := json.Marshal(items)
	if err != nil {
		err = fmt.Errorf("failed marshaling cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err = s.cache.Set(c, cacheKey, raw, 0).Err(); err != nil {
		err = fmt.Errorf("failed persisting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *Store) ClearCart(c context.Context, sessionID string) error {
	c, span := tracer.Start(c, "Store ClearCart")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCart, sessionID)
	if err := s.cache.Del(c, cacheKey).Err(); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		commonErrors.HandleError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

// Customer returns the cached session customer, or nil for a guest session.
// Malformed stored content clears the session silently.
func (s *Store) Customer(
	c context.Context,
	sessionID string,
) (*recordstore.Customer, error) {
	c, span := tracer.Start(c, "Store Customer")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCustomer, sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store Customer").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	raw, err := s.cache.Get(c, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		err = fmt.Errorf("failed reading session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	customer := recordstore.Customer{}
	if err = json.Unmarshal([]byte(raw), &customer); err != nil {
		logger.Warn().Err(err).Msg("discarding malformed stored session customer")
		if delErr := s.cache.Del(c, cacheKey).Err(); delErr != nil {
			commonErrors.HandleError(delErr, span)
			logger.Error().Err(delErr).Msg("failed deleting malformed session customer")
		}
		return nil, nil
	}
	return &customer, nil
}

func (s *Store) SaveCustomer(
	c context.Context,
	sessionID string,
	customer recordstore.Customer,
) error {
	c, span := tracer.Start(c, "Store SaveCustomer")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCustomer, sessionID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store SaveCustomer").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	raw, err := json.Marshal(customer)
	if err != nil {
		err = fmt.Errorf("failed marshaling session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if err = s.cache.Set(c, cacheKey, raw, 0).Err(); err != nil {
		err = fmt.Errorf("failed persisting session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *Store) ClearCustomer(c context.Context, sessionID string) error {
	c, span := tracer.Start(c, "Store ClearCustomer")
	defer span.End()

	cacheKey := fmt.Sprintf(keyCustomer, sessionID)
	if err := s.cache.Del(c, cacheKey).Err(); err != nil {
		err = fmt.Errorf("failed clearing session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *Store) StashLastOrderID(c context.Context, sessionID string, orderID string) error {
	c, span := tracer.Start(c, "Store StashLastOrderID")
	defer span.End()

	cacheKey := fmt.Sprintf(keyLastOrderID, sessionID)
	if err := s.cache.Set(c, cacheKey, orderID, 0).Err(); err != nil {
		err = fmt.Errorf("failed stashing last order id with error=%w", err)
		commonErrors.HandleError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

// TakeLastOrderID reads and erases the stashed order id in one step,
// preserving the read-once semantics of the confirmation view.
func (s *Store) TakeLastOrderID(c context.Context, sessionID string) (string, error) {
	c, span := tracer.Start(c, "Store TakeLastOrderID")
	defer span.End()

	cacheKey := fmt.Sprintf(keyLastOrderID, sessionID)
	orderID, err := s.cache.GetDel(c, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		err = fmt.Errorf("failed taking last order id with error=%w", err)
		commonErrors.HandleError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return "", err
	}
	return orderID, nil
}

func (s *Store) MarkVisited(c context.Context, sessionID string) error {
	c, span := tracer.Start(c, "Store MarkVisited")
	defer span.End()

	cacheKey := fmt.Sprintf(keyHasVisited, sessionID)
	if err := s.cache.Set(c, cacheKey, "true", 0).Err(); err != nil {
		err = fmt.Errorf("failed marking session visited with error=%w", err)
		commonErrors.HandleError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (s *Store) HasVisited(c context.Context, sessionID string) (bool, error) {
	c, span := tracer.Start(c, "Store HasVisited")
	defer span.End()

	cacheKey := fmt.Sprintf(keyHasVisited, sessionID)
	raw, err := s.cache.Get(c, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		err = fmt.Errorf("failed reading visited flag with error=%w", err)
		commonErrors.HandleError(err, span)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		return false, err
	}
	return raw == "true", nil
}
