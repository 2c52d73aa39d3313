package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/grocery/internal/cache"
	"github.com/Alturino/grocery/internal/constants"
	"github.com/Alturino/grocery/internal/coupon"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/internal/pricing"
	"github.com/Alturino/grocery/internal/repository"
	"github.com/Alturino/grocery/order/internal/otel"
	"github.com/Alturino/grocery/order/pkg/event"
	"github.com/Alturino/grocery/order/pkg/request"
	"github.com/Alturino/grocery/order/pkg/response"
)

const (
	StatusProcessing = "Processing"
	maxTitleLength   = 255
)

type Publisher interface {
	Publish(c context.Context, queue string, body []byte) error
}

type OrderService struct {
	pool      *pgxpool.Pool
	queries   *repository.Queries
	cache     *redis.Client
	publisher Publisher
	coupons   coupon.Registry
	pricing   pricing.Config
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	publisher Publisher,
	coupons coupon.Registry,
	pricingConfig pricing.Config,
) *OrderService {
	return &OrderService{
		pool:      pool,
		queries:   queries,
		cache:     cache,
		publisher: publisher,
		coupons:   coupons,
		pricing:   pricingConfig,
	}
}

// CreateOrder converts the user's persisted cart into an order inside one
// transaction. Validation failures wrap ErrValidation. Anything failing after
// the order insert starts wraps ErrCheckoutFailed and leaves cart and orders
// untouched.
func (svc *OrderService) CreateOrder(c context.Context, param request.CreateOrder) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService CreateOrder").
		Str(log.KeyUserID, param.UserID.String()).
		Str(log.KeyAddressID, param.AddressID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating payment method").Logger()
	if !request.IsPaymentMethod(param.PaymentMethod) {
		err := fmt.Errorf("payment method=%s with error=%w: %w", param.PaymentMethod, inErrors.ErrValidation, inErrors.ErrUnsupportedMethod)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "resolving coupon").Str(log.KeyCoupon, param.CouponCode).Logger()
	logger.Trace().Msg("resolving coupon")
	activeCoupon, err := svc.coupons.Resolve(param.CouponCode)
	if err != nil {
		err = fmt.Errorf("failed resolving coupon with error=%w: %w", inErrors.ErrValidation, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("resolved coupon")

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		err = svc.checkoutFailed(c, fmt.Errorf("failed initializing transaction with error=%w", err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	defer func() {
		if err := tx.Rollback(c); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	queries := svc.queries.WithTx(tx)
	logger.Trace().Msg("initialized transaction")

	logger = logger.With().Str(log.KeyProcess, "locking cart").Logger()
	logger.Trace().Msg("locking cart")
	cartItems, err := queries.FindCartItemsByUserIdForUpdate(c, param.UserID)
	if err != nil {
		err = svc.checkoutFailed(c, fmt.Errorf("failed locking cart with error=%w", err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if len(cartItems) == 0 {
		err = fmt.Errorf("failed checking out with error=%w: %w", inErrors.ErrValidation, inErrors.ErrEmptyCart)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Int(log.KeyCartItems, len(cartItems)).Logger()
	logger.Trace().Msg("locked cart")

	logger = logger.With().Str(log.KeyProcess, "verifying address").Logger()
	logger.Trace().Msg("verifying address")
	_, err = queries.FindAddressByIdAndUserId(c, repository.FindAddressByIdAndUserIdParams{
		ID:     param.AddressID,
		UserID: param.UserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed verifying address with error=%w: %w", inErrors.ErrValidation, inErrors.ErrAddressNotOwned)
		} else {
			err = svc.checkoutFailed(c, fmt.Errorf("failed verifying address with error=%w", err))
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("verified address")

	logger = logger.With().Str(log.KeyProcess, "computing totals").Logger()
	lines := make([]pricing.Line, 0, len(cartItems))
	for _, item := range cartItems {
		lines = append(lines, pricing.Line{
			ProductID: item.ProductID,
			Price:     repository.DecimalFromNumeric(item.Price),
			Quantity:  item.Quantity,
		})
	}
	totals := pricing.ComputeTotals(lines, activeCoupon, svc.pricing).Rounded()
	logger = logger.With().Any(log.KeyTotals, totals).Logger()
	if !param.Total.Round(2).Equal(totals.GrandTotal) || !param.DiscountAmount.Round(2).Equal(totals.Discount) {
		err = fmt.Errorf(
			"submitted total=%s discount=%s expected total=%s discount=%s with error=%w: %w",
			param.Total, param.DiscountAmount, totals.GrandTotal, totals.Discount,
			inErrors.ErrValidation, inErrors.ErrTotalMismatch,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("computed totals")

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Trace().Msg("inserting order")
	couponCode := ""
	if activeCoupon != nil {
		couponCode = activeCoupon.Code
	}
	order, err := queries.InsertOrder(c, repository.InsertOrderParams{
		ID:             uuid.New(),
		UserID:         param.UserID,
		AddressID:      param.AddressID,
		PaymentMethod:  param.PaymentMethod,
		CouponCode:     repository.TextFromString(couponCode),
		Subtotal:       repository.NumericFromDecimal(totals.Subtotal),
		DiscountAmount: repository.NumericFromDecimal(totals.Discount),
		Shipping:       repository.NumericFromDecimal(totals.Shipping),
		Tax:            repository.NumericFromDecimal(totals.Tax),
		Total:          repository.NumericFromDecimal(totals.GrandTotal),
		Status:         StatusProcessing,
	})
	if err != nil {
		err = svc.checkoutFailed(c, fmt.Errorf("failed inserting order with error=%w", err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "inserting order items").Logger()
	logger.Trace().Msg("inserting order items")
	orderItems := make([]repository.OrderItem, 0, len(cartItems))
	for i, item := range cartItems {
		orderItem, err := queries.InsertOrderItem(c, repository.InsertOrderItemParams{
			ID:        uuid.New(),
			OrderID:   order.ID,
			LineNo:    int32(i + 1),
			ProductID: item.ProductID,
			Title:     truncate(item.Title, maxTitleLength),
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
		if err != nil {
			err = svc.checkoutFailed(c, fmt.Errorf("failed inserting order item productId=%d with error=%w", item.ProductID, err))
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		orderItems = append(orderItems, orderItem)
	}
	logger.Info().Int(log.KeyOrderItems, len(orderItems)).Msg("inserted order items")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Trace().Msg("clearing cart")
	deleted, err := queries.DeleteCartItemsByUserId(c, param.UserID)
	if err == nil && deleted != int64(len(cartItems)) {
		err = fmt.Errorf("deleted %d cart rows, expected %d", deleted, len(cartItems))
	}
	if err != nil {
		err = svc.checkoutFailed(c, fmt.Errorf("failed clearing cart with error=%w", err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("cleared cart")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = svc.checkoutFailed(c, fmt.Errorf("failed committing transaction with error=%w", err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("committed transaction")

	result := order.Response(orderItems)
	c = logger.WithContext(c)
	svc.afterCommit(c, result)

	return result, nil
}

func (svc *OrderService) checkoutFailed(c context.Context, err error) error {
	otel.CheckoutFailures.Add(c, 1)
	return fmt.Errorf("%w: %w", inErrors.ErrCheckoutFailed, err)
}

// afterCommit runs the side effects of a committed order. None of them can
// undo the order, so failures are only logged.
func (svc *OrderService) afterCommit(c context.Context, order response.Order) {
	c, span := otel.Tracer.Start(c, "OrderService afterCommit")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderService afterCommit").Logger()

	otel.OrdersPlaced.Add(c, 1)

	cacheKey := cache.CartKey(order.UserID)
	logger = logger.With().Str(log.KeyProcess, "invalidating cart cache").Str(log.KeyCacheKey, cacheKey).Logger()
	if svc.cache != nil {
		if err := cache.InvalidateCart(c, svc.cache, order.UserID); err != nil {
			inOtel.RecordError(err, span)
			logger.Warn().Err(err).Msg("failed invalidating cart cache")
		}
	}

	if svc.publisher == nil {
		return
	}
	logger = logger.With().Str(log.KeyProcess, "publishing order placed").Str(log.KeyQueue, constants.QueueOrderPlaced).Logger()
	body, err := json.Marshal(event.OrderPlaced{
		Type:      event.TypeOrderPlaced,
		RequestID: log.RequestIDFromContext(c),
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		ItemCount: len(order.Items),
		PlacedAt:  order.CreatedAt,
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg("failed encoding order placed event")
		return
	}
	publishCtx, cancel := context.WithTimeout(c, 5*time.Second)
	defer cancel()
	if err = svc.publisher.Publish(publishCtx, constants.QueueOrderPlaced, body); err != nil {
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg("failed publishing order placed event")
		return
	}
	logger.Trace().Msg("published order placed event")
}

func (svc *OrderService) FindOrdersByUserId(c context.Context, userId uuid.UUID) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrdersByUserId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrdersByUserId").
		Str(log.KeyUserID, userId.String()).
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Trace().Msg("finding orders")
	rows, err := svc.queries.FindOrdersByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int(log.KeyOrders, len(rows)).Msg("found orders")

	logger = logger.With().Str(log.KeyProcess, "mapping orders").Logger()
	orders := make([]response.Order, 0, len(rows))
	for _, row := range rows {
		order, err := row.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping orderId=%s with error=%w", row.ID, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		orders = append(orders, order)
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("mapped orders")

	return orders, nil
}

func truncate(s string, max int) string {
	runes := 0
	for i := range s {
		if runes == max {
			return s[:i]
		}
		runes++
	}
	return s
}
