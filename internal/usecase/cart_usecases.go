package usecase

import (
	"strconv"
	"strings"

	"github.com/example/astro-shop-service/internal/domain"
)

// OpenSession — получить корзину пользователя и начать сессию заново
// (позиции и купон сбрасываются при каждом открытии панели).
type OpenSession struct {
	Carts domain.CartRegistry
}

func (uc OpenSession) Execute(userID string) *domain.Cart {
	cart := uc.Carts.GetOrCreate(userID)
	cart.Reset()
	return cart
}

// AddItem — добавить товар в корзину: существующая строка инкрементируется,
// иначе добавляется новая с количеством 1.
type AddItem struct {
	Carts   domain.CartRegistry
	Catalog domain.CatalogStore
}

func (uc AddItem) Execute(userID, productID string) (domain.Product, error) {
	p, ok := uc.Catalog.Product(productID)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	cart := uc.Carts.GetOrCreate(userID)
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Qty++
			return p, nil
		}
	}
	cart.Items = append(cart.Items, domain.CartItem{ProductID: productID, Qty: 1})
	return p, nil
}

// QtyUpdate — одна правка количества; Qty приходит сырой строкой из формы.
type QtyUpdate struct {
	ProductID string
	Qty       string
}

// SetQuantities — пакетная правка количеств. Количество 0 удаляет строку;
// правка, не разбирающаяся как неотрицательное целое, пропускается, но
// возвращается вызывающему (частичное применение — не ошибка).
type SetQuantities struct {
	Carts domain.CartRegistry
}

func (uc SetQuantities) Execute(userID string, updates []QtyUpdate) (applied int, skipped []string) {
	byID := make(map[string]int)
	for _, u := range updates {
		qty, err := strconv.Atoi(strings.TrimSpace(u.Qty))
		if u.ProductID == "" || err != nil || qty < 0 {
			skipped = append(skipped, u.ProductID+"="+u.Qty)
			continue
		}
		byID[u.ProductID] = qty
		applied++
	}

	cart := uc.Carts.GetOrCreate(userID)
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if qty, ok := byID[it.ProductID]; ok {
			it.Qty = qty
		}
		if it.Qty > 0 {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	return applied, skipped
}

// ApplyCoupon — применить купон к корзине. Код нормализуется в верхний
// регистр; неизвестный код — ErrInvalidCoupon, купон корзины не меняется.
type ApplyCoupon struct {
	Carts   domain.CartRegistry
	Catalog domain.CatalogStore
}

func (uc ApplyCoupon) Execute(userID, code string) (string, int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	pct, ok := uc.Catalog.CouponPercent(code)
	if !ok {
		return "", 0, domain.ErrInvalidCoupon
	}
	cart := uc.Carts.GetOrCreate(userID)
	cart.Coupon = code
	return code, pct, nil
}

// ClearCart — очистить позиции и купон.
type ClearCart struct {
	Carts domain.CartRegistry
}

func (uc ClearCart) Execute(userID string) {
	uc.Carts.GetOrCreate(userID).Reset()
}
