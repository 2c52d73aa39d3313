package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/grocery/internal/cache"
	"github.com/Alturino/grocery/internal/constants"
	"github.com/Alturino/grocery/internal/coupon"
	"github.com/Alturino/grocery/internal/errors"
	"github.com/Alturino/grocery/internal/pricing"
	"github.com/Alturino/grocery/internal/repository"
	"github.com/Alturino/grocery/internal/testutil"
	"github.com/Alturino/grocery/order/pkg/event"
	"github.com/Alturino/grocery/order/pkg/request"
	"github.com/Alturino/grocery/order/pkg/response"
)

type seeded struct {
	user    repository.User
	address repository.Address
}

// quote prices the user's cart the way the storefront does before submitting.
func quote(t *testing.T, c context.Context, queries *repository.Queries, userId uuid.UUID, code string) pricing.Totals {
	t.Helper()
	items, err := queries.FindCartItemsByUserId(c, userId)
	require.NoError(t, err)
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{
			ProductID: item.ProductID,
			Price:     repository.DecimalFromNumeric(item.Price),
			Quantity:  item.Quantity,
		})
	}
	activeCoupon, err := coupon.Default.Resolve(code)
	require.NoError(t, err)
	return pricing.ComputeTotals(lines, activeCoupon, pricing.DefaultConfig()).Rounded()
}

func TestCreateOrder(t *testing.T) {
	c := testutil.Context(t)
	f := setup(t, c)

	longTitle := strings.Repeat("é", 300)

	tests := []struct {
		name    string
		seed    func(t *testing.T, s seeded)
		input   func(t *testing.T, s seeded) request.CreateOrder
		wantErr []error
		verify  func(t *testing.T, s seeded, order response.Order)
	}{
		{
			name: "given cart with coupon should place order and clear cart",
			seed: func(t *testing.T, s seeded) {
				testutil.SeedCartItem(t, c, f.queries, s.user.ID, 1, "Basmati Rice", "150", 2)
				testutil.SeedCartItem(t, c, f.queries, s.user.ID, 2, longTitle, "19.99", 3)
			},
			input: func(t *testing.T, s seeded) request.CreateOrder {
				totals := quote(t, c, f.queries, s.user.ID, "save10")
				return request.CreateOrder{
					UserID:         s.user.ID,
					AddressID:      s.address.ID,
					PaymentMethod:  request.PaymentUPI,
					CouponCode:     "save10",
					Total:          totals.GrandTotal,
					DiscountAmount: totals.Discount,
				}
			},
			verify: func(t *testing.T, s seeded, order response.Order) {
				assert.Equal(t, StatusProcessing, order.Status)
				assert.Equal(t, "SAVE10", order.CouponCode)
				assert.Equal(t, s.address.ID, order.AddressID)
				assert.Equal(t, "359.97", order.Subtotal.StringFixed(2))
				assert.Equal(t, "36.00", order.DiscountAmount.StringFixed(2))
				assert.Equal(t, "49.00", order.Shipping.StringFixed(2))
				assert.Equal(t, "16.20", order.Tax.StringFixed(2))
				assert.Equal(t, "389.17", order.Total.StringFixed(2))
				require.Len(t, order.Items, 2)
				assert.Equal(t, int32(1), order.Items[0].LineNo)
				assert.Equal(t, int64(1), order.Items[0].ProductID)
				assert.Equal(t, int32(2), order.Items[0].Quantity)
				assert.Equal(t, maxTitleLength, utf8.RuneCountInString(order.Items[1].Title))

				itemSum := decimal.Zero
				for _, item := range order.Items {
					itemSum = itemSum.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
				}
				assert.True(t, itemSum.Sub(order.DiscountAmount).Add(order.Shipping).Add(order.Tax).Round(2).Equal(order.Total))

				cartItems, err := f.queries.FindCartItemsByUserId(c, s.user.ID)
				require.NoError(t, err)
				assert.Empty(t, cartItems)
			},
		},
		{
			name: "given empty cart should return validation error",
			seed: func(t *testing.T, s seeded) {},
			input: func(t *testing.T, s seeded) request.CreateOrder {
				return request.CreateOrder{
					UserID:        s.user.ID,
					AddressID:     s.address.ID,
					PaymentMethod: request.PaymentCashOnDelivery,
				}
			},
			wantErr: []error{errors.ErrValidation, errors.ErrEmptyCart},
		},
		{
			name: "given unknown coupon should return invalid coupon",
			seed: func(t *testing.T, s seeded) {
				testutil.SeedCartItem(t, c, f.queries, s.user.ID, 1, "Milk", "60", 1)
			},
			input: func(t *testing.T, s seeded) request.CreateOrder {
				return request.CreateOrder{
					UserID:        s.user.ID,
					AddressID:     s.address.ID,
					PaymentMethod: request.PaymentCard,
					CouponCode:    "SAVE99",
					Total:         decimal.RequireFromString("112"),
				}
			},
			wantErr: []error{errors.ErrValidation, errors.ErrInvalidCoupon},
		},
		{
			name: "given stale total should return validation error",
			seed: func(t *testing.T, s seeded) {
				testutil.SeedCartItem(t, c, f.queries, s.user.ID, 1, "Milk", "60", 1)
			},
			input: func(t *testing.T, s seeded) request.CreateOrder {
				return request.CreateOrder{
					UserID:        s.user.ID,
					AddressID:     s.address.ID,
					PaymentMethod: request.PaymentCard,
					Total:         decimal.RequireFromString("100"),
				}
			},
			wantErr: []error{errors.ErrValidation, errors.ErrTotalMismatch},
		},
		{
			name: "given address of another user should return validation error",
			seed: func(t *testing.T, s seeded) {
				testutil.SeedCartItem(t, c, f.queries, s.user.ID, 1, "Milk", "60", 1)
			},
			input: func(t *testing.T, s seeded) request.CreateOrder {
				other := testutil.SeedUser(t, c, f.queries)
				otherAddress := testutil.SeedAddress(t, c, f.queries, other.ID)
				totals := quote(t, c, f.queries, s.user.ID, "")
				return request.CreateOrder{
					UserID:        s.user.ID,
					AddressID:     otherAddress.ID,
					PaymentMethod: request.PaymentCard,
					Total:         totals.GrandTotal,
				}
			},
			wantErr: []error{errors.ErrValidation, errors.ErrAddressNotOwned},
		},
		{
			name: "given unsupported payment method should return validation error",
			seed: func(t *testing.T, s seeded) {
				testutil.SeedCartItem(t, c, f.queries, s.user.ID, 1, "Milk", "60", 1)
			},
			input: func(t *testing.T, s seeded) request.CreateOrder {
				return request.CreateOrder{
					UserID:        s.user.ID,
					AddressID:     s.address.ID,
					PaymentMethod: "Cheque",
				}
			},
			wantErr: []error{errors.ErrValidation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testutil.SeedUser(t, c, f.queries)
			s := seeded{user: user, address: testutil.SeedAddress(t, c, f.queries, user.ID)}
			tt.seed(t, s)
			before, err := f.queries.FindCartItemsByUserId(c, user.ID)
			require.NoError(t, err)

			actual, err := f.service.CreateOrder(c, tt.input(t, s))
			if len(tt.wantErr) > 0 {
				for _, want := range tt.wantErr {
					assert.ErrorIs(t, err, want)
				}
				after, err := f.queries.FindCartItemsByUserId(c, user.ID)
				require.NoError(t, err)
				assert.Len(t, after, len(before), "cart should be untouched")
				count, err := f.queries.CountOrdersByUserId(c, user.ID)
				require.NoError(t, err)
				assert.EqualValues(t, 0, count)
				return
			}
			require.NoError(t, err)
			tt.verify(t, s, actual)
		})
	}
}

func TestCreateOrderRollsBackOnItemFailure(t *testing.T) {
	c := testutil.Context(t)
	f := setup(t, c)

	user := testutil.SeedUser(t, c, f.queries)
	address := testutil.SeedAddress(t, c, f.queries, user.ID)
	testutil.SeedCartItem(t, c, f.queries, user.ID, 1, "Tomatoes", "40", 2)
	testutil.SeedCartItem(t, c, f.queries, user.ID, failingProductId, "Onions", "30", 1)
	totals := quote(t, c, f.queries, user.ID, "")

	_, err := f.service.CreateOrder(c, request.CreateOrder{
		UserID:        user.ID,
		AddressID:     address.ID,
		PaymentMethod: request.PaymentCashOnDelivery,
		Total:         totals.GrandTotal,
	})
	assert.ErrorIs(t, err, errors.ErrCheckoutFailed)

	count, err := f.queries.CountOrdersByUserId(c, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count, "order row should be rolled back")

	cartItems, err := f.queries.FindCartItemsByUserId(c, user.ID)
	require.NoError(t, err)
	assert.Len(t, cartItems, 2, "cart should be intact")

	assert.Empty(t, f.publisher.published(constants.QueueOrderPlaced))
}

func TestOrderHistoryRoundTrip(t *testing.T) {
	c := testutil.Context(t)
	f := setup(t, c)

	user := testutil.SeedUser(t, c, f.queries)
	address := testutil.SeedAddress(t, c, f.queries, user.ID)

	place := func(productId int64, price string) response.Order {
		testutil.SeedCartItem(t, c, f.queries, user.ID, productId, "Item", price, 1)
		totals := quote(t, c, f.queries, user.ID, "FREESHIP")
		order, err := f.service.CreateOrder(c, request.CreateOrder{
			UserID:         user.ID,
			AddressID:      address.ID,
			PaymentMethod:  request.PaymentCard,
			CouponCode:     "FREESHIP",
			Total:          totals.GrandTotal,
			DiscountAmount: totals.Discount,
		})
		require.NoError(t, err)
		return order
	}

	first := place(10, "120.50")
	time.Sleep(10 * time.Millisecond)
	second := place(11, "80")

	// a later cart line for the same product at a new price must not leak
	// into the snapshot.
	testutil.SeedCartItem(t, c, f.queries, user.ID, 10, "Item", "999", 1)

	history, err := f.service.FindOrdersByUserId(c, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID, "newest order first")
	assert.Equal(t, first.ID, history[1].ID)

	for i, expected := range []response.Order{second, first} {
		actual := history[i]
		assert.True(t, expected.Total.Equal(actual.Total))
		assert.True(t, expected.Shipping.IsZero())
		require.Len(t, actual.Items, len(expected.Items))
		for j := range expected.Items {
			assert.Equal(t, expected.Items[j].ID, actual.Items[j].ID)
			assert.Equal(t, expected.Items[j].ProductID, actual.Items[j].ProductID)
			assert.Equal(t, expected.Items[j].Quantity, actual.Items[j].Quantity)
			assert.True(t, expected.Items[j].Price.Equal(actual.Items[j].Price))
		}
	}
	assert.Equal(t, "120.50", history[1].Items[0].Price.StringFixed(2))

	published := f.publisher.published(constants.QueueOrderPlaced)
	require.Len(t, published, 2)
	placed := event.OrderPlaced{}
	require.NoError(t, json.Unmarshal(published[0], &placed))
	assert.Equal(t, first.ID, placed.OrderID)
	assert.Equal(t, user.ID, placed.UserID)
	assert.Equal(t, event.TypeOrderPlaced, placed.Type)
}

func TestCreateOrderInvalidatesCartCache(t *testing.T) {
	c := testutil.Context(t)
	f := setup(t, c)

	user := testutil.SeedUser(t, c, f.queries)
	address := testutil.SeedAddress(t, c, f.queries, user.ID)
	testutil.SeedCartItem(t, c, f.queries, user.ID, 1, "Bread", "45", 1)
	require.NoError(t, f.cache.Set(c, cache.CartKey(user.ID), "[]", time.Minute).Err())

	totals := quote(t, c, f.queries, user.ID, "")
	_, err := f.service.CreateOrder(c, request.CreateOrder{
		UserID:        user.ID,
		AddressID:     address.ID,
		PaymentMethod: request.PaymentCashOnDelivery,
		Total:         totals.GrandTotal,
	})
	require.NoError(t, err)

	exists, err := f.cache.Exists(c, cache.CartKey(user.ID)).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 0, exists)
}

func TestCreateOrderSucceedsWhenPublishFails(t *testing.T) {
	c := testutil.Context(t)
	f := setup(t, c)

	publisher := &mockPublisher{}
	publisher.
		On("Publish", mock.Anything, constants.QueueOrderPlaced, mock.AnythingOfType("[]uint8")).
		Return(assert.AnError).
		Once()
	svc := NewOrderService(f.pool, f.queries, f.cache, publisher, coupon.Default, pricing.DefaultConfig())

	user := testutil.SeedUser(t, c, f.queries)
	address := testutil.SeedAddress(t, c, f.queries, user.ID)
	testutil.SeedCartItem(t, c, f.queries, user.ID, 3, "Milk", "60", 2)

	totals := quote(t, c, f.queries, user.ID, "")
	order, err := svc.CreateOrder(c, request.CreateOrder{
		UserID:        user.ID,
		AddressID:     address.ID,
		PaymentMethod: request.PaymentCard,
		Total:         totals.GrandTotal,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
	publisher.AssertExpectations(t)

	orders, err := f.queries.FindOrdersByUserId(c, user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
