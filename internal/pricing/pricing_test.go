package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/grocery/internal/coupon"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustCoupon(t *testing.T, code string) *coupon.Coupon {
	t.Helper()
	c, err := coupon.Default.Lookup(code)
	if err != nil {
		t.Fatalf("failed looking up coupon=%s with error=%s", code, err)
	}
	return &c
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		coupon   func(t *testing.T) *coupon.Coupon
		expected Totals
	}{
		{
			name:     "given empty cart should return all zero",
			lines:    nil,
			coupon:   func(t *testing.T) *coupon.Coupon { return nil },
			expected: Totals{Subtotal: d("0"), Discount: d("0"), Shipping: d("0"), Tax: d("0"), GrandTotal: d("0")},
		},
		{
			name:     "given subtotal below threshold should charge flat shipping",
			lines:    []Line{{ProductID: 1, Price: d("100"), Quantity: 2}},
			coupon:   func(t *testing.T) *coupon.Coupon { return nil },
			expected: Totals{Subtotal: d("200"), Discount: d("0"), Shipping: d("49"), Tax: d("10"), GrandTotal: d("259")},
		},
		{
			name:     "given subtotal at threshold should ship free",
			lines:    []Line{{ProductID: 1, Price: d("500"), Quantity: 2}},
			coupon:   func(t *testing.T) *coupon.Coupon { return nil },
			expected: Totals{Subtotal: d("1000"), Discount: d("0"), Shipping: d("0"), Tax: d("50"), GrandTotal: d("1050")},
		},
		{
			name:     "given two of 150 with SAVE10 should total 332.5",
			lines:    []Line{{ProductID: 1, Price: d("150"), Quantity: 2}},
			coupon:   func(t *testing.T) *coupon.Coupon { return mustCoupon(t, "SAVE10") },
			expected: Totals{Subtotal: d("300"), Discount: d("30"), Shipping: d("49"), Tax: d("13.5"), GrandTotal: d("332.5")},
		},
		{
			name:     "given SAVE10 should discount before tax",
			lines:    []Line{{ProductID: 1, Price: d("200"), Quantity: 1}},
			coupon:   func(t *testing.T) *coupon.Coupon { return mustCoupon(t, "SAVE10") },
			expected: Totals{Subtotal: d("200"), Discount: d("20"), Shipping: d("49"), Tax: d("9"), GrandTotal: d("238")},
		},
		{
			name: "given SAVE15 above threshold should discount and ship free",
			lines: []Line{
				{ProductID: 1, Price: d("600"), Quantity: 1},
				{ProductID: 2, Price: d("400"), Quantity: 1},
			},
			coupon:   func(t *testing.T) *coupon.Coupon { return mustCoupon(t, "SAVE15") },
			expected: Totals{Subtotal: d("1000"), Discount: d("150"), Shipping: d("0"), Tax: d("42.5"), GrandTotal: d("892.5")},
		},
		{
			name:     "given FREESHIP below threshold should waive shipping",
			lines:    []Line{{ProductID: 1, Price: d("100"), Quantity: 1}},
			coupon:   func(t *testing.T) *coupon.Coupon { return mustCoupon(t, "FREESHIP") },
			expected: Totals{Subtotal: d("100"), Discount: d("0"), Shipping: d("0"), Tax: d("5"), GrandTotal: d("105")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := ComputeTotals(tt.lines, tt.coupon(t), DefaultConfig())
			assert.True(t, tt.expected.Subtotal.Equal(actual.Subtotal), "subtotal %s", actual.Subtotal)
			assert.True(t, tt.expected.Discount.Equal(actual.Discount), "discount %s", actual.Discount)
			assert.True(t, tt.expected.Shipping.Equal(actual.Shipping), "shipping %s", actual.Shipping)
			assert.True(t, tt.expected.Tax.Equal(actual.Tax), "tax %s", actual.Tax)
			assert.True(t, tt.expected.GrandTotal.Equal(actual.GrandTotal), "grandTotal %s", actual.GrandTotal)
		})
	}
}

func TestTotalsRounded(t *testing.T) {
	lines := []Line{{ProductID: 1, Price: d("33.333"), Quantity: 3}}
	totals := ComputeTotals(lines, mustCoupon(t, "SAVE15"), DefaultConfig())

	assert.Equal(t, "99.999", totals.Subtotal.String())
	rounded := totals.Rounded()
	assert.Equal(t, "100", rounded.Subtotal.String())
	assert.Equal(t, "15", rounded.Discount.String())
	assert.Equal(t, "4.25", rounded.Tax.String())
	assert.Equal(t, "138.25", rounded.GrandTotal.String())
}

func TestCanCheckout(t *testing.T) {
	assert.False(t, ComputeTotals(nil, nil, DefaultConfig()).CanCheckout())
	assert.True(t, ComputeTotals([]Line{{ProductID: 1, Price: d("1"), Quantity: 1}}, nil, DefaultConfig()).CanCheckout())
}

func TestAmountToFreeShipping(t *testing.T) {
	below := ComputeTotals([]Line{{ProductID: 1, Price: d("250"), Quantity: 2}}, nil, DefaultConfig())
	assert.Equal(t, "500", below.AmountToFreeShipping().String())

	above := ComputeTotals([]Line{{ProductID: 1, Price: d("1200"), Quantity: 1}}, nil, DefaultConfig())
	assert.True(t, above.AmountToFreeShipping().IsZero())
}

func TestApplyingSameCouponTwiceIsIdempotent(t *testing.T) {
	lines := []Line{{ProductID: 1, Price: d("150"), Quantity: 2}}
	once := ComputeTotals(lines, mustCoupon(t, "SAVE10"), DefaultConfig())
	twice := ComputeTotals(lines, mustCoupon(t, "save10"), DefaultConfig())
	assert.True(t, once.Discount.Equal(twice.Discount))
	assert.True(t, once.GrandTotal.Equal(twice.GrandTotal))
}

func TestGrandTotalIdentity(t *testing.T) {
	carts := [][]Line{
		{{ProductID: 1, Price: d("19.99"), Quantity: 3}},
		{{ProductID: 1, Price: d("0.01"), Quantity: 1}, {ProductID: 2, Price: d("999.99"), Quantity: 1}},
		{{ProductID: 3, Price: d("1234.56"), Quantity: 7}},
	}
	codes := []string{"", "SAVE10", "SAVE15", "FREESHIP"}

	for _, lines := range carts {
		for _, code := range codes {
			c, err := coupon.Default.Resolve(code)
			assert.NoError(t, err)
			totals := ComputeTotals(lines, c, DefaultConfig())
			expected := totals.Subtotal.Sub(totals.Discount).Add(totals.Shipping).Add(totals.Tax)
			assert.True(t, expected.Equal(totals.GrandTotal))
			if totals.Subtotal.GreaterThanOrEqual(DefaultConfig().FreeShippingThreshold) {
				assert.True(t, totals.Shipping.IsZero())
			}
		}
	}
}
