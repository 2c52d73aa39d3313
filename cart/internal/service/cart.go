package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/cart/internal/otel"
	"github.com/Alturino/grocery/cart/pkg/request"
	"github.com/Alturino/grocery/cart/pkg/response"
	"github.com/Alturino/grocery/internal/cache"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/internal/pricing"
	"github.com/Alturino/grocery/internal/repository"
)

type CartService struct {
	queries  *repository.Queries
	cache    *redis.Client
	cacheTTL time.Duration
	pricing  pricing.Config
}

func NewCartService(
	queries *repository.Queries,
	cache *redis.Client,
	cacheTTL time.Duration,
	pricingConfig pricing.Config,
) *CartService {
	return &CartService{
		queries:  queries,
		cache:    cache,
		cacheTTL: cacheTTL,
		pricing:  pricingConfig,
	}
}

func (svc *CartService) FindCart(c context.Context, userId uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	cacheKey := cache.CartKey(userId)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCart").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	logger.Trace().Msg("finding cart in cache")
	items := []response.CartItem{}
	cached, err := svc.cache.Get(c, cacheKey).Bytes()
	switch {
	case err == nil:
		if err = json.Unmarshal(cached, &items); err == nil {
			logger.Info().Msg("found cart in cache")
			return svc.cart(userId, items), nil
		}
		logger.Warn().Err(err).Msg("failed decoding cached cart, reading database")
	case errors.Is(err, redis.Nil):
		logger.Trace().Msg("cart not found in cache")
	default:
		logger.Warn().Err(err).Msg("failed reading cart cache, reading database")
	}

	version, versionErr := cache.CartVersion(c, svc.cache, userId)
	if versionErr != nil {
		logger.Warn().Err(versionErr).Msg("failed reading cart version, skipping cache write")
	}

	logger = logger.With().Str(log.KeyProcess, "finding cart in database").Logger()
	logger.Trace().Msg("finding cart in database")
	rows, err := svc.queries.FindCartItemsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	items = make([]response.CartItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Response())
	}
	logger.Info().Int(log.KeyCartItems, len(items)).Msg("found cart in database")

	if versionErr == nil {
		svc.writeBack(logger.WithContext(c), userId, version, items)
	}

	return svc.cart(userId, items), nil
}

// writeBack caches items read under version. A mutation that invalidated the
// cart after the read wins and the stale rows are dropped.
func (svc *CartService) writeBack(c context.Context, userId uuid.UUID, version int64, items []response.CartItem) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "caching cart").Int64(log.KeyCartVersion, version).Logger()
	encoded, err := json.Marshal(items)
	if err != nil {
		logger.Warn().Err(err).Msg("failed encoding cart")
		return
	}
	stored, err := cache.SetCartIfUnchanged(c, svc.cache, userId, version, encoded, svc.cacheTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed caching cart")
		return
	}
	if !stored {
		logger.Info().Msg("cart changed while reading, skipped caching")
		return
	}
	logger.Trace().Msg("cached cart")
}

func (svc *CartService) cart(userId uuid.UUID, items []response.CartItem) response.Cart {
	return response.Cart{
		UserID: userId,
		Items:  items,
		Totals: pricing.ComputeTotals(response.Lines(items), nil, svc.pricing).Rounded(),
	}
}

func (svc *CartService) AddItem(c context.Context, param request.AddCartItem) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	if param.Quantity <= 0 {
		param.Quantity = 1
	}

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyUserID, param.UserID.String()).
		Int64(log.KeyProductID, param.ProductID).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "upserting cart item").Logger()
	logger.Trace().Msg("upserting cart item")
	item, err := svc.queries.UpsertCartItem(c, repository.UpsertCartItemParams{
		UserID:    param.UserID,
		ProductID: param.ProductID,
		Title:     param.Title,
		Price:     repository.NumericFromDecimal(param.Price),
		Image:     param.Image,
		Quantity:  param.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed upserting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger.Info().Int32(log.KeyQuantity, item.Quantity).Msg("upserted cart item")

	svc.invalidate(logger.WithContext(c), param.UserID)

	return item.Response(), nil
}

// UpdateQuantity sets the quantity of an existing line. A zero quantity
// removes the line and returns it with Quantity zero.
func (svc *CartService) UpdateQuantity(c context.Context, param request.UpdateCartItem) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyUserID, param.UserID.String()).
		Int64(log.KeyProductID, param.ProductID).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	if param.Quantity == 0 {
		logger.Trace().Msg("quantity is zero, removing cart item")
		err := svc.RemoveItem(logger.WithContext(c), param.UserID, param.ProductID)
		if err != nil {
			return response.CartItem{}, err
		}
		return response.CartItem{UserID: param.UserID, ProductID: param.ProductID}, nil
	}

	logger = logger.With().Str(log.KeyProcess, "updating cart item quantity").Logger()
	logger.Trace().Msg("updating cart item quantity")
	item, err := svc.queries.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		UserID:    param.UserID,
		ProductID: param.ProductID,
		Quantity:  param.Quantity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("cart item productId=%d with error=%w", param.ProductID, inErrors.ErrNotFound)
		} else {
			err = fmt.Errorf("failed updating cart item quantity with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger.Info().Msg("updated cart item quantity")

	svc.invalidate(logger.WithContext(c), param.UserID)

	return item.Response(), nil
}

// RemoveItem is idempotent: removing an absent product succeeds.
func (svc *CartService) RemoveItem(c context.Context, userId uuid.UUID, productId int64) error {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyUserID, userId.String()).
		Int64(log.KeyProductID, productId).
		Str(log.KeyProcess, "deleting cart item").
		Logger()

	logger.Trace().Msg("deleting cart item")
	deleted, err := svc.queries.DeleteCartItem(c, repository.DeleteCartItemParams{
		UserID:    userId,
		ProductID: productId,
	})
	if err != nil {
		err = fmt.Errorf("failed deleting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int64("deleted", deleted).Msg("deleted cart item")

	svc.invalidate(logger.WithContext(c), userId)

	return nil
}

func (svc *CartService) Clear(c context.Context, userId uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "deleting cart items").
		Logger()

	logger.Trace().Msg("deleting cart items")
	deleted, err := svc.queries.DeleteCartItemsByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int64("deleted", deleted).Msg("deleted cart items")

	svc.invalidate(logger.WithContext(c), userId)

	return nil
}

func (svc *CartService) invalidate(c context.Context, userId uuid.UUID) {
	cacheKey := cache.CartKey(userId)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyProcess, "invalidating cart cache").
		Str(log.KeyCacheKey, cacheKey).
		Logger()
	if err := cache.InvalidateCart(c, svc.cache, userId); err != nil {
		logger.Warn().Err(err).Msg("failed invalidating cart cache")
		return
	}
	logger.Trace().Msg("invalidated cart cache")
}
