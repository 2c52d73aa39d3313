// Package storefront is the client side state container of the grocery
// storefront. A Store holds one session's cart, coupon and toasts and applies
// every cart change only after the API has confirmed it.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	cartRequest "github.com/Alturino/grocery/cart/pkg/request"
	cartResponse "github.com/Alturino/grocery/cart/pkg/response"
	"github.com/Alturino/grocery/internal/coupon"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/log"
	inOtel "github.com/Alturino/grocery/internal/otel"
	"github.com/Alturino/grocery/internal/pricing"
	orderRequest "github.com/Alturino/grocery/order/pkg/request"
	orderResponse "github.com/Alturino/grocery/order/pkg/response"
	"github.com/Alturino/grocery/storefront/internal/otel"
	userResponse "github.com/Alturino/grocery/user/pkg/response"
)

type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string
}

type Session struct {
	Token string
	User  userResponse.User
}

type CheckoutRequest struct {
	AddressID     uuid.UUID
	PaymentMethod string
}

type Store struct {
	client  *Client
	pricing pricing.Config
	coupons coupon.Registry
	toasts  *ToastQueue

	// mutation serializes requests that change the cart so a later change
	// never races an earlier one.
	mutation    sync.Mutex
	checkingOut atomic.Bool

	mu           sync.RWMutex
	session      *Session
	items        []cartResponse.CartItem
	activeCoupon *coupon.Coupon
}

func NewStore(client *Client, pricingConfig pricing.Config, coupons coupon.Registry) *Store {
	return &Store{
		client:  client,
		pricing: pricingConfig,
		coupons: coupons,
		toasts:  &ToastQueue{},
	}
}

func (s *Store) Toasts() []Toast {
	return s.toasts.Drain()
}

func (s *Store) currentSession() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, inErrors.ErrUnauthenticated
	}
	return *s.session, nil
}

func (s *Store) SetSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.items = nil
	s.activeCoupon = nil
}

func (s *Store) Login(c context.Context, email string, password string) error {
	c, span := otel.Tracer.Start(c, "Store Login")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "Store Login").Str(log.KeyProcess, "logging in").Logger()

	auth := userResponse.Auth{}
	// Login redacts its password when marshalled, so the body is built by hand.
	body := map[string]string{"email": email, "password": password}
	err := s.client.Do(c, http.MethodPost, "/auth/login", "", body, &auth)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Invalid email or password")
		return err
	}
	s.SetSession(&Session{Token: auth.Token, User: auth.User})
	logger.Info().Str(log.KeyUserID, auth.User.ID.String()).Msg("logged in")

	return s.Load(c)
}

func (s *Store) Logout() {
	s.SetSession(nil)
}

// Load replaces the local cart with the persisted one.
func (s *Store) Load(c context.Context) error {
	c, span := otel.Tracer.Start(c, "Store Load")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "Store Load").Str(log.KeyProcess, "loading cart").Logger()

	session, err := s.currentSession()
	if err != nil {
		return err
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	cart := cartResponse.Cart{}
	err = s.client.Do(c, http.MethodGet, "/cart/"+session.User.ID.String(), session.Token, nil, &cart)
	if err != nil {
		err = fmt.Errorf("failed loading cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Could not load your cart")
		return err
	}

	s.mu.Lock()
	s.items = cart.Items
	s.mu.Unlock()
	logger.Info().Int(log.KeyCartItems, len(cart.Items)).Msg("loaded cart")

	return nil
}

func (s *Store) Items() []cartResponse.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]cartResponse.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) indexOf(productId int64) int {
	for i, item := range s.items {
		if item.ProductID == productId {
			return i
		}
	}
	return -1
}

// applyLine replaces or appends the line the server stored. Callers hold mu.
func (s *Store) applyLine(item cartResponse.CartItem) {
	if i := s.indexOf(item.ProductID); i >= 0 {
		s.items[i] = item
		return
	}
	s.items = append(s.items, item)
}

func (s *Store) AddItem(c context.Context, product Product, quantity int32) error {
	c, span := otel.Tracer.Start(c, "Store AddItem")
	defer span.End()

	if quantity <= 0 {
		quantity = 1
	}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store AddItem").
		Int64(log.KeyProductID, product.ID).
		Int32(log.KeyQuantity, quantity).
		Logger()

	session, err := s.currentSession()
	if err != nil {
		s.toasts.Push(ToastInfo, "Please log in to add items to your cart")
		return fmt.Errorf("failed adding productId=%d with error=%w", product.ID, err)
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	logger = logger.With().Str(log.KeyProcess, "persisting cart item").Logger()
	item := cartResponse.CartItem{}
	err = s.client.Do(c, http.MethodPost, "/cart/add", session.Token, cartRequest.AddCartItem{
		UserID:    session.User.ID,
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	}, &item)
	if err != nil {
		err = fmt.Errorf("failed adding productId=%d with error=%w", product.ID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Could not add "+product.Title+" to your cart")
		return err
	}

	s.mu.Lock()
	s.applyLine(item)
	s.mu.Unlock()
	logger.Info().Msg("added cart item")
	s.toasts.Push(ToastSuccess, product.Title+" added to cart")

	return nil
}

// SetQuantity removes the line when quantity is not positive.
func (s *Store) SetQuantity(c context.Context, productId int64, quantity int32) error {
	if quantity <= 0 {
		return s.RemoveItem(c, productId)
	}

	c, span := otel.Tracer.Start(c, "Store SetQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store SetQuantity").
		Int64(log.KeyProductID, productId).
		Int32(log.KeyQuantity, quantity).
		Logger()

	session, err := s.currentSession()
	if err != nil {
		return fmt.Errorf("failed updating productId=%d with error=%w", productId, err)
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	s.mu.RLock()
	present := s.indexOf(productId) >= 0
	s.mu.RUnlock()
	if !present {
		return fmt.Errorf("productId=%d not in cart with error=%w", productId, inErrors.ErrNotFound)
	}

	logger = logger.With().Str(log.KeyProcess, "persisting quantity").Logger()
	item := cartResponse.CartItem{}
	err = s.client.Do(c, http.MethodPut, "/cart/update", session.Token, cartRequest.UpdateCartItem{
		UserID:    session.User.ID,
		ProductID: productId,
		Quantity:  quantity,
	}, &item)
	if err != nil {
		err = fmt.Errorf("failed updating productId=%d with error=%w", productId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Could not update quantity")
		return err
	}

	s.mu.Lock()
	s.applyLine(item)
	s.mu.Unlock()
	logger.Info().Msg("updated quantity")

	return nil
}

// RemoveItem is a no-op for products that are not in the cart.
func (s *Store) RemoveItem(c context.Context, productId int64) error {
	c, span := otel.Tracer.Start(c, "Store RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store RemoveItem").
		Int64(log.KeyProductID, productId).
		Logger()

	session, err := s.currentSession()
	if err != nil {
		return fmt.Errorf("failed removing productId=%d with error=%w", productId, err)
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	s.mu.RLock()
	present := s.indexOf(productId) >= 0
	s.mu.RUnlock()
	if !present {
		logger.Trace().Msg("product not in cart")
		return nil
	}

	logger = logger.With().Str(log.KeyProcess, "persisting removal").Logger()
	path := fmt.Sprintf("/cart/remove/%s/%d", session.User.ID, productId)
	if err = s.client.Do(c, http.MethodDelete, path, session.Token, nil, nil); err != nil {
		err = fmt.Errorf("failed removing productId=%d with error=%w", productId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Could not remove item")
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(productId); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.mu.Unlock()
	logger.Info().Msg("removed cart item")

	return nil
}

func (s *Store) Clear(c context.Context) error {
	c, span := otel.Tracer.Start(c, "Store Clear")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "Store Clear").Str(log.KeyProcess, "clearing cart").Logger()

	session, err := s.currentSession()
	if err != nil {
		return fmt.Errorf("failed clearing cart with error=%w", err)
	}

	s.mutation.Lock()
	defer s.mutation.Unlock()

	if err = s.client.Do(c, http.MethodDelete, "/cart/clear/"+session.User.ID.String(), session.Token, nil, nil); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Could not clear cart")
		return err
	}

	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	logger.Info().Msg("cleared cart")

	return nil
}

// Totals are exact. Round them with Rounded before display.
func (s *Store) Totals() pricing.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pricing.ComputeTotals(cartResponse.Lines(s.items), s.activeCoupon, s.pricing)
}

func (s *Store) ApplyCoupon(code string) error {
	applied, err := s.coupons.Lookup(code)
	if err != nil {
		s.toasts.Push(ToastError, "Invalid coupon code")
		return err
	}
	s.mu.Lock()
	s.activeCoupon = &applied
	s.mu.Unlock()
	s.toasts.Push(ToastSuccess, "Coupon "+applied.Code+" applied")
	return nil
}

func (s *Store) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeCoupon = nil
}

func (s *Store) ActiveCoupon() *coupon.Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeCoupon == nil {
		return nil
	}
	active := *s.activeCoupon
	return &active
}

// Checkout places an order for the current cart. A second call while one is
// in flight fails with ErrCheckoutInFlight instead of placing a duplicate.
func (s *Store) Checkout(c context.Context, param CheckoutRequest) (orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "Store Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store Checkout").
		Str(log.KeyAddressID, param.AddressID.String()).
		Logger()

	if !s.checkingOut.CompareAndSwap(false, true) {
		err := inErrors.ErrCheckoutInFlight
		logger.Warn().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	defer s.checkingOut.Store(false)

	s.mutation.Lock()
	defer s.mutation.Unlock()

	logger = logger.With().Str(log.KeyProcess, "validating checkout").Logger()
	s.mu.RLock()
	session := s.session
	lines := cartResponse.Lines(s.items)
	activeCoupon := s.activeCoupon
	s.mu.RUnlock()

	var err error
	switch {
	case session == nil:
		err = inErrors.ErrUnauthenticated
	case param.AddressID == uuid.Nil:
		err = fmt.Errorf("no address selected with error=%w", inErrors.ErrValidation)
	case len(lines) == 0:
		err = fmt.Errorf("%w: %w", inErrors.ErrValidation, inErrors.ErrEmptyCart)
	case !orderRequest.IsPaymentMethod(param.PaymentMethod):
		err = fmt.Errorf("payment method=%s with error=%w: %w", param.PaymentMethod, inErrors.ErrValidation, inErrors.ErrUnsupportedMethod)
	}
	if err != nil {
		err = fmt.Errorf("failed checking out with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Please complete your order details")
		return orderResponse.Order{}, err
	}

	totals := pricing.ComputeTotals(lines, activeCoupon, s.pricing).Rounded()
	couponCode := ""
	if activeCoupon != nil {
		couponCode = activeCoupon.Code
	}

	logger = logger.With().Str(log.KeyProcess, "placing order").Any(log.KeyTotals, totals).Logger()
	logger.Trace().Msg("placing order")
	order := orderResponse.Order{}
	err = s.client.Do(c, http.MethodPost, "/orders/create", session.Token, orderRequest.CreateOrder{
		UserID:         session.User.ID,
		AddressID:      param.AddressID,
		PaymentMethod:  param.PaymentMethod,
		CouponCode:     couponCode,
		Total:          totals.GrandTotal,
		DiscountAmount: totals.Discount,
	}, &order)
	if err != nil {
		statusErr := &StatusError{}
		if errors.As(err, &statusErr) && statusErr.StatusCode >= http.StatusInternalServerError {
			err = fmt.Errorf("%w: %w", inErrors.ErrCheckoutFailed, err)
		}
		err = fmt.Errorf("failed placing order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Could not place your order, your cart is unchanged")
		return orderResponse.Order{}, err
	}

	s.mu.Lock()
	s.items = nil
	s.activeCoupon = nil
	s.mu.Unlock()
	logger.Info().Str(log.KeyOrderID, order.ID.String()).Msg("placed order")
	s.toasts.Push(ToastCelebration, "Order placed successfully")

	return order, nil
}

func (s *Store) Orders(c context.Context) ([]orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "Store Orders")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "Store Orders").Str(log.KeyProcess, "finding orders").Logger()

	session, err := s.currentSession()
	if err != nil {
		return nil, err
	}

	orders := []orderResponse.Order{}
	if err = s.client.Do(c, http.MethodGet, "/orders/my/"+session.User.ID.String(), session.Token, nil, &orders); err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.toasts.Push(ToastError, "Could not load your orders")
		return nil, err
	}
	logger.Info().Int(log.KeyOrders, len(orders)).Msg("found orders")

	return orders, nil
}
