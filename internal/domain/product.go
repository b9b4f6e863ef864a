package domain

import "github.com/shopspring/decimal"

// FulfillKind — способ выдачи товара после оплаты.
type FulfillKind string

const (
	FulfillManual FulfillKind = "MANUAL"
	FulfillCode   FulfillKind = "CODE"
)

// Product — позиция каталога. Меняется только правкой файла каталога
// между перезапусками.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Kind     FulfillKind     `json:"type"`
	StockKey string          `json:"stockKey,omitempty"`
}
