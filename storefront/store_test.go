package storefront

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/grocery/internal/coupon"
	inErrors "github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/pricing"
	orderRequest "github.com/Alturino/grocery/order/pkg/request"
)

var (
	rice  = Product{ID: 1, Title: "Basmati Rice", Price: decimal.RequireFromString("150")}
	apple = Product{ID: 2, Title: "Apples", Price: decimal.RequireFromString("120")}
)

func TestLogin(t *testing.T) {
	api, server := newFakeAPI(t)
	store := NewStore(NewClient(server.URL+"/api", server.Client()), pricing.DefaultConfig(), coupon.Default)
	c := context.Background()

	err := store.Login(c, "asha@grocery.test", "wrong")
	assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)
	assert.ErrorIs(t, store.AddItem(c, rice, 1), inErrors.ErrUnauthenticated)

	require.NoError(t, store.Login(c, "asha@grocery.test", "secret1"))
	require.NoError(t, store.AddItem(c, rice, 1))
	assert.Equal(t, 1, api.callCount("cart"), "login loads the persisted cart")

	store.Logout()
	assert.Empty(t, store.Items())
}

func TestAddItem(t *testing.T) {
	c := context.Background()

	t.Run("given no session should return unauthenticated without request", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := NewStore(NewClient(server.URL+"/api", server.Client()), pricing.DefaultConfig(), coupon.Default)

		err := store.AddItem(c, rice, 1)
		assert.ErrorIs(t, err, inErrors.ErrUnauthenticated)
		assert.Zero(t, api.callCount("add"))
		toasts := store.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, ToastInfo, toasts[0].Kind)
	})

	t.Run("given same product twice should merge quantity", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := loggedInStore(t, api, server)

		require.NoError(t, store.AddItem(c, rice, 1))
		require.NoError(t, store.AddItem(c, rice, 1))

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int32(2), items[0].Quantity)
		assert.Equal(t, int32(2), api.items[rice.ID].Quantity)
		assert.Len(t, store.Toasts(), 2)
	})

	t.Run("given zero quantity should add one", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := loggedInStore(t, api, server)

		require.NoError(t, store.AddItem(c, apple, 0))
		assert.Equal(t, int32(1), store.Items()[0].Quantity)
	})

	t.Run("given server failure should leave cart unchanged", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := loggedInStore(t, api, server)
		require.NoError(t, store.AddItem(c, rice, 1))
		store.Toasts()

		api.failNext("add", http.StatusInternalServerError)
		err := store.AddItem(c, rice, 1)
		assert.ErrorIs(t, err, inErrors.ErrTransientNetwork)
		assert.Equal(t, int32(1), store.Items()[0].Quantity)

		toasts := store.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, ToastError, toasts[0].Kind)
	})

	t.Run("given unreachable api should return transient network error", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := loggedInStore(t, api, server)
		server.Close()

		err := store.AddItem(c, rice, 1)
		assert.ErrorIs(t, err, inErrors.ErrTransientNetwork)
		assert.Empty(t, store.Items())
	})
}

func TestSetQuantity(t *testing.T) {
	c := context.Background()
	api, server := newFakeAPI(t)
	store := loggedInStore(t, api, server)
	require.NoError(t, store.AddItem(c, rice, 1))
	require.NoError(t, store.AddItem(c, apple, 1))

	t.Run("given absent product should return not found without request", func(t *testing.T) {
		err := store.SetQuantity(c, 99, 3)
		assert.ErrorIs(t, err, inErrors.ErrNotFound)
		assert.Zero(t, api.callCount("update"))
		assert.Len(t, store.Items(), 2)
	})

	t.Run("given positive quantity should update in place", func(t *testing.T) {
		require.NoError(t, store.SetQuantity(c, rice.ID, 5))
		items := store.Items()
		require.Len(t, items, 2)
		assert.Equal(t, rice.ID, items[0].ProductID)
		assert.Equal(t, int32(5), items[0].Quantity)
	})

	t.Run("given zero quantity should remove", func(t *testing.T) {
		require.NoError(t, store.SetQuantity(c, apple.ID, 0))
		assert.Len(t, store.Items(), 1)
		assert.Equal(t, 1, api.callCount("remove"))
	})

	t.Run("given absent product removal should be a no-op", func(t *testing.T) {
		before := store.Items()
		require.NoError(t, store.RemoveItem(c, 42))
		assert.Equal(t, before, store.Items())
		assert.Equal(t, 1, api.callCount("remove"))
	})
}

func TestClear(t *testing.T) {
	c := context.Background()
	api, server := newFakeAPI(t)
	store := loggedInStore(t, api, server)
	require.NoError(t, store.AddItem(c, rice, 2))

	api.failNext("clear", http.StatusServiceUnavailable)
	assert.ErrorIs(t, store.Clear(c), inErrors.ErrTransientNetwork)
	assert.Len(t, store.Items(), 1)

	require.NoError(t, store.Clear(c))
	assert.Empty(t, store.Items())
	assert.Empty(t, api.items)
}

func TestCoupon(t *testing.T) {
	c := context.Background()
	api, server := newFakeAPI(t)
	store := loggedInStore(t, api, server)
	require.NoError(t, store.AddItem(c, rice, 2))

	require.NoError(t, store.ApplyCoupon("save10"))
	once := store.Totals()
	require.NoError(t, store.ApplyCoupon("SAVE10"))
	twice := store.Totals()
	assert.True(t, once.GrandTotal.Equal(twice.GrandTotal))
	assert.Equal(t, "332.5", twice.GrandTotal.String())
	assert.Equal(t, "30", twice.Discount.String())

	err := store.ApplyCoupon("SAVE99")
	assert.ErrorIs(t, err, inErrors.ErrInvalidCoupon)
	require.NotNil(t, store.ActiveCoupon())
	assert.Equal(t, "SAVE10", store.ActiveCoupon().Code, "invalid code keeps prior coupon")

	require.NoError(t, store.ApplyCoupon("FREESHIP"))
	assert.Equal(t, "FREESHIP", store.ActiveCoupon().Code, "new coupon replaces old")
	assert.True(t, store.Totals().Shipping.IsZero())

	store.RemoveCoupon()
	assert.Nil(t, store.ActiveCoupon())
	assert.Equal(t, "364", store.Totals().GrandTotal.String())
}

func TestCheckout(t *testing.T) {
	c := context.Background()
	addressId := uuid.New()

	t.Run("given valid cart should place order and reset", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := loggedInStore(t, api, server)
		require.NoError(t, store.AddItem(c, rice, 2))
		require.NoError(t, store.ApplyCoupon("SAVE10"))
		store.Toasts()

		order, err := store.Checkout(c, CheckoutRequest{AddressID: addressId, PaymentMethod: orderRequest.PaymentUPI})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, order.ID)
		require.Len(t, order.Items, 1)
		assert.Equal(t, int32(2), order.Items[0].Quantity)

		assert.Equal(t, "332.5", api.lastOrder.Total.String())
		assert.Equal(t, "30", api.lastOrder.DiscountAmount.String())
		assert.Equal(t, "SAVE10", api.lastOrder.CouponCode)
		assert.Equal(t, addressId, api.lastOrder.AddressID)

		assert.Empty(t, store.Items())
		assert.Nil(t, store.ActiveCoupon())
		toasts := store.Toasts()
		require.Len(t, toasts, 1)
		assert.Equal(t, ToastCelebration, toasts[0].Kind)

		orders, err := store.Orders(c)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)
	})

	t.Run("given sub cent price should checkout at stored price", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := loggedInStore(t, api, server)
		tea := Product{ID: 3, Title: "Loose Tea", Price: decimal.RequireFromString("0.333")}
		require.NoError(t, store.AddItem(c, tea, 3))

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "0.33", items[0].Price.String(), "local line follows the stored price")

		require.NoError(t, store.SetQuantity(c, tea.ID, 4))
		require.NoError(t, store.SetQuantity(c, tea.ID, 3))
		assert.Equal(t, "0.33", store.Items()[0].Price.String())

		_, err := store.Checkout(c, CheckoutRequest{AddressID: addressId, PaymentMethod: orderRequest.PaymentUPI})
		require.NoError(t, err)
		assert.Equal(t, "50.04", api.lastOrder.Total.String())
	})

	t.Run("given server failure should keep cart and coupon", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := loggedInStore(t, api, server)
		require.NoError(t, store.AddItem(c, rice, 2))
		require.NoError(t, store.ApplyCoupon("SAVE10"))

		api.failNext("create", http.StatusInternalServerError)
		_, err := store.Checkout(c, CheckoutRequest{AddressID: addressId, PaymentMethod: orderRequest.PaymentCard})
		assert.ErrorIs(t, err, inErrors.ErrCheckoutFailed)
		assert.Len(t, store.Items(), 1)
		assert.NotNil(t, store.ActiveCoupon())
	})

	t.Run("given rejected payload should return validation error", func(t *testing.T) {
		api, server := newFakeAPI(t)
		store := loggedInStore(t, api, server)
		require.NoError(t, store.AddItem(c, rice, 1))

		api.failNext("create", http.StatusBadRequest)
		_, err := store.Checkout(c, CheckoutRequest{AddressID: addressId, PaymentMethod: orderRequest.PaymentCard})
		assert.ErrorIs(t, err, inErrors.ErrValidation)
		assert.NotErrorIs(t, err, inErrors.ErrCheckoutFailed)
	})

	preconditions := []struct {
		name    string
		request CheckoutRequest
		empty   bool
		wantErr error
	}{
		{name: "given empty cart should fail validation", request: CheckoutRequest{AddressID: addressId, PaymentMethod: orderRequest.PaymentCashOnDelivery}, empty: true, wantErr: inErrors.ErrValidation},
		{name: "given no address should fail validation", request: CheckoutRequest{PaymentMethod: orderRequest.PaymentCashOnDelivery}, wantErr: inErrors.ErrValidation},
		{name: "given unknown payment method should fail validation", request: CheckoutRequest{AddressID: addressId, PaymentMethod: "Cheque"}, wantErr: inErrors.ErrValidation},
	}
	for _, tt := range preconditions {
		t.Run(tt.name, func(t *testing.T) {
			api, server := newFakeAPI(t)
			store := loggedInStore(t, api, server)
			if !tt.empty {
				require.NoError(t, store.AddItem(c, rice, 1))
			}
			assert.Equal(t, !tt.empty, store.Totals().CanCheckout())

			_, err := store.Checkout(c, tt.request)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, api.callCount("create"))
		})
	}
}

func TestCheckoutInFlightGuard(t *testing.T) {
	c := context.Background()
	api, server := newFakeAPI(t)
	api.orderEntered = make(chan struct{})
	api.orderRelease = make(chan struct{})
	store := loggedInStore(t, api, server)
	require.NoError(t, store.AddItem(c, rice, 1))

	request := CheckoutRequest{AddressID: uuid.New(), PaymentMethod: orderRequest.PaymentCashOnDelivery}
	done := make(chan error, 1)
	go func() {
		_, err := store.Checkout(c, request)
		done <- err
	}()

	select {
	case <-api.orderEntered:
	case <-time.After(5 * time.Second):
		t.Fatal("first checkout never reached the api")
	}

	_, err := store.Checkout(c, request)
	assert.ErrorIs(t, err, inErrors.ErrCheckoutInFlight)

	close(api.orderRelease)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.callCount("create"))
}

func TestMutationsAreSerialized(t *testing.T) {
	c := context.Background()
	api, server := newFakeAPI(t)
	store := loggedInStore(t, api, server)

	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.AddItem(c, rice, 1))
		}()
	}
	wg.Wait()

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int32(10), items[0].Quantity)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 1, api.maxInflight)
	assert.Equal(t, int32(10), api.items[rice.ID].Quantity)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   error
	}{
		{statusCode: http.StatusBadRequest, expected: inErrors.ErrValidation},
		{statusCode: http.StatusUnauthorized, expected: inErrors.ErrUnauthenticated},
		{statusCode: http.StatusForbidden, expected: inErrors.ErrForbidden},
		{statusCode: http.StatusNotFound, expected: inErrors.ErrNotFound},
		{statusCode: http.StatusBadGateway, expected: inErrors.ErrTransientNetwork},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.statusCode), func(t *testing.T) {
			api, server := newFakeAPI(t)
			store := loggedInStore(t, api, server)

			api.failNext("orders", tt.statusCode)
			_, err := store.Orders(context.Background())
			assert.ErrorIs(t, err, tt.expected)

			statusErr := &StatusError{}
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.statusCode, statusErr.StatusCode)
			assert.Equal(t, "injected failure", statusErr.Message)
		})
	}
}
