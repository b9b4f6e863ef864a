package usecase

import "github.com/example/astro-shop-service/internal/domain"

// GetOrder — получить заказ из реестра по номеру.
type GetOrder struct {
	Orders domain.OrderRegistry
}

func (uc GetOrder) Execute(id string) (domain.Order, bool) {
	return uc.Orders.Get(id)
}

// ListProducts — список товаров каталога.
type ListProducts struct {
	Catalog domain.CatalogStore
}

func (uc ListProducts) Execute() []domain.Product {
	return uc.Catalog.Products()
}
