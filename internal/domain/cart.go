package domain

// CartItem — строка корзины: ссылка на товар и количество (qty >= 1,
// нулевые строки вычищаются при редактировании).
type CartItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"quantity"`
}

// Cart — корзина пользователя: позиции в порядке добавления и
// необязательный купон.
type Cart struct {
	Items  []CartItem
	Coupon string
}

// Empty сообщает, пуста ли корзина.
func (c *Cart) Empty() bool { return len(c.Items) == 0 }

// Reset очищает позиции и купон.
func (c *Cart) Reset() {
	c.Items = nil
	c.Coupon = ""
}

// SnapshotItems — копия позиций по значению; правки живой корзины после
// оформления заказа не должны влиять на снимок.
func (c *Cart) SnapshotItems() []CartItem {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return items
}
