package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	products map[string]Product
	coupons  map[string]int
}

func (f fakeLookup) Product(id string) (Product, bool) {
	p, ok := f.products[id]
	return p, ok
}

func (f fakeLookup) CouponPercent(code string) (int, bool) {
	pct, ok := f.coupons[code]
	return pct, ok
}

func testLookup() fakeLookup {
	return fakeLookup{
		products: map[string]Product{
			"ff110":  {ID: "ff110", Name: "110 Diamantes", Price: decimal.RequireFromString("7.99"), Kind: FulfillManual},
			"rbx400": {ID: "rbx400", Name: "400 Robux", Price: decimal.RequireFromString("24.90"), Kind: FulfillManual},
			"gift10": {ID: "gift10", Name: "Gift Card 10", Price: decimal.RequireFromString("10.00"), Kind: FulfillCode, StockKey: "GIFT-10"},
		},
		coupons: map[string]int{"ASTRO10": 10},
	}
}

func TestComputeCartEmpty(t *testing.T) {
	sum := ComputeCart(&Cart{}, testLookup())
	assert.Empty(t, sum.Lines)
	assert.True(t, sum.Total.IsZero())
	assert.True(t, sum.Subtotal.IsZero())
}

func TestComputeCartSubtotal(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "ff110", Qty: 2},
		{ProductID: "rbx400", Qty: 1},
	}}
	sum := ComputeCart(cart, testLookup())
	require.Len(t, sum.Lines, 2)
	assert.Equal(t, "40.88", sum.Subtotal.StringFixed(2))
	assert.Equal(t, "40.88", sum.Total.StringFixed(2))
	assert.Equal(t, 0, sum.DiscountPct)
}

func TestComputeCartCoupon(t *testing.T) {
	// ASTRO10 на подытог 100.00: скидка 10.00, итог 90.00
	cart := &Cart{
		Items:  []CartItem{{ProductID: "gift10", Qty: 10}},
		Coupon: "ASTRO10",
	}
	sum := ComputeCart(cart, testLookup())
	assert.Equal(t, "100.00", sum.Subtotal.StringFixed(2))
	assert.Equal(t, 10, sum.DiscountPct)
	assert.Equal(t, "10.00", sum.Discount.StringFixed(2))
	assert.Equal(t, "90.00", sum.Total.StringFixed(2))
}

func TestComputeCartUnknownCoupon(t *testing.T) {
	cart := &Cart{
		Items:  []CartItem{{ProductID: "ff110", Qty: 1}},
		Coupon: "NAOEXISTE",
	}
	sum := ComputeCart(cart, testLookup())
	assert.Equal(t, 0, sum.DiscountPct)
	assert.Equal(t, "7.99", sum.Total.StringFixed(2))
}

func TestComputeCartSkipsUnknownProducts(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "removed", Qty: 3},
		{ProductID: "ff110", Qty: 1},
	}}
	sum := ComputeCart(cart, testLookup())
	require.Len(t, sum.Lines, 1)
	assert.Equal(t, "ff110", sum.Lines[0].Product.ID)
	assert.Equal(t, "7.99", sum.Subtotal.StringFixed(2))
}

func TestComputeCartNeverNegative(t *testing.T) {
	lookup := testLookup()
	lookup.coupons["MEGA"] = 150
	cart := &Cart{
		Items:  []CartItem{{ProductID: "ff110", Qty: 1}},
		Coupon: "MEGA",
	}
	sum := ComputeCart(cart, lookup)
	assert.False(t, sum.Total.IsNegative())
	assert.True(t, sum.Total.IsZero())
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{StatusAwaitingPayment, false},
		{StatusAwaitingApproval, false},
		{StatusApproved, false},
		{StatusDelivered, true},
		{StatusRejected, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestCartSnapshotDecoupled(t *testing.T) {
	cart := &Cart{Items: []CartItem{{ProductID: "ff110", Qty: 1}}}
	snap := cart.SnapshotItems()
	cart.Items[0].Qty = 5
	cart.Items = append(cart.Items, CartItem{ProductID: "rbx400", Qty: 2})
	require.Len(t, snap, 1)
	assert.Equal(t, 1, snap[0].Qty)
}
