package domain

import "github.com/shopspring/decimal"

// PriceLookup — срез каталога, достаточный для расчёта корзины.
type PriceLookup interface {
	Product(id string) (Product, bool)
	CouponPercent(code string) (int, bool)
}

// CartLine — разрешённая строка корзины с посчитанной суммой.
type CartLine struct {
	Product   Product
	Qty       int
	LineTotal decimal.Decimal
}

// CartSummary — итог расчёта корзины.
type CartSummary struct {
	Lines       []CartLine
	Subtotal    decimal.Decimal
	DiscountPct int
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// ComputeCart считает строки, подытог, скидку и итог корзины.
// Позиции с неизвестным товаром молча пропускаются; пустая корзина — не
// ошибка, итог ноль. Итог не бывает отрицательным.
func ComputeCart(cart *Cart, lookup PriceLookup) CartSummary {
	sum := CartSummary{
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.Zero,
	}

	for _, it := range cart.Items {
		p, ok := lookup.Product(it.ProductID)
		if !ok {
			continue
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
		sum.Lines = append(sum.Lines, CartLine{Product: p, Qty: it.Qty, LineTotal: lineTotal})
		sum.Subtotal = sum.Subtotal.Add(lineTotal)
	}

	if cart.Coupon != "" {
		if pct, ok := lookup.CouponPercent(cart.Coupon); ok {
			sum.DiscountPct = pct
		}
	}
	sum.Discount = sum.Subtotal.Mul(decimal.NewFromInt(int64(sum.DiscountPct))).Div(decimal.NewFromInt(100))

	sum.Total = sum.Subtotal.Sub(sum.Discount)
	if sum.Total.IsNegative() {
		sum.Total = decimal.Zero
	}
	return sum
}
