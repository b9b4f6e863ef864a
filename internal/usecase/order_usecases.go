package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/astro-shop-service/internal/domain"
)

// CreateOrder — оформить заказ из корзины: снимок позиций и купона по
// значению, фиксация суммы, приватный канал покупателя, регистрация.
type CreateOrder struct {
	Carts   domain.CartRegistry
	Orders  domain.OrderRegistry
	Catalog domain.CatalogStore
	Gateway domain.ChatGateway
}

func (uc CreateOrder) Execute(ctx context.Context, userID, username string) (domain.Order, domain.CartSummary, error) {
	cart := uc.Carts.GetOrCreate(userID)
	if cart.Empty() {
		return domain.Order{}, domain.CartSummary{}, domain.ErrEmptyCart
	}

	sum := domain.ComputeCart(cart, uc.Catalog)
	channelID, err := uc.Gateway.CreateCartChannel(ctx, userID, username)
	if err != nil {
		return domain.Order{}, domain.CartSummary{}, fmt.Errorf("create cart channel: %w", err)
	}

	order := domain.Order{
		ID:        uc.Orders.NextID(),
		UserID:    userID,
		Items:     cart.SnapshotItems(),
		Coupon:    cart.Coupon,
		Total:     sum.Total,
		ChannelID: channelID,
		CreatedAt: time.Now(),
		Status:    domain.StatusAwaitingPayment,
	}
	uc.Orders.Put(order)
	return order, sum, nil
}

// SubmitProof — принять текст подтверждения оплаты (comprovante) и
// перевести заказ в ожидание аппрува. Содержимое не валидируется
// (может быть просто «pago»).
type SubmitProof struct {
	Orders domain.OrderRegistry
}

func (uc SubmitProof) Execute(orderID, userID string, staff bool, text string) (domain.Order, error) {
	var out domain.Order
	err := uc.Orders.Update(orderID, func(o *domain.Order) error {
		if o.UserID != userID && !staff {
			return domain.ErrUnauthorized
		}
		o.Proof = text
		o.Status = domain.StatusAwaitingApproval
		out = *o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

// DeliveryResult — результат выдачи одной единицы CODE-товара: код либо
// пометка «нет на складе».
type DeliveryResult struct {
	ProductName string
	Code        string
	OK          bool
}

// Approve — аппрув заказа staff-ом. При наличии CODE-позиций сразу
// выполняется автоматическая выдача: по единице товара атомарно снимается
// код со склада (FIFO), нехватка фиксируется как отдельный результат, не
// ломая заказ целиком; после обхода склад персистится, заказ — ENTREGUE.
// Вся мутация идёт под локом реестра, читатели видят заказ целиком до
// либо после аппрува.
type Approve struct {
	Orders  domain.OrderRegistry
	Catalog domain.CatalogStore
	Log     *slog.Logger
}

func (uc Approve) Execute(orderID string, staff bool) (domain.Order, []DeliveryResult, error) {
	if !staff {
		return domain.Order{}, nil, domain.ErrUnauthorized
	}

	var out domain.Order
	var results []DeliveryResult
	err := uc.Orders.Update(orderID, func(o *domain.Order) error {
		if o.Status.IsTerminal() {
			return domain.ErrOrderFinalized
		}
		o.Status = domain.StatusApproved

		for _, it := range o.Items {
			p, ok := uc.Catalog.Product(it.ProductID)
			if !ok || p.Kind != domain.FulfillCode {
				continue
			}
			for i := 0; i < it.Qty; i++ {
				code, ok := uc.Catalog.PopCode(p.StockKey)
				results = append(results, DeliveryResult{ProductName: p.Name, Code: code, OK: ok})
			}
		}

		if len(results) > 0 {
			if err := uc.Catalog.Persist(); err != nil {
				// выдача уже состоялась, заказ всё равно закрывается
				uc.Log.Error("persist stock after delivery", "order", orderID, "error", err)
			}
			o.Delivered = true
			o.Status = domain.StatusDelivered
		}
		out = *o
		return nil
	})
	if err != nil {
		return domain.Order{}, nil, err
	}
	return out, results, nil
}

// Reject — отказ staff-ом, терминальный статус RECUSADO.
type Reject struct {
	Orders domain.OrderRegistry
}

func (uc Reject) Execute(orderID string, staff bool) (domain.Order, error) {
	if !staff {
		return domain.Order{}, domain.ErrUnauthorized
	}
	var out domain.Order
	err := uc.Orders.Update(orderID, func(o *domain.Order) error {
		if o.Status.IsTerminal() {
			return domain.ErrOrderFinalized
		}
		o.Status = domain.StatusRejected
		out = *o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

// MarkDelivered — ручная выдача staff-ом (MANUAL-позиции после аппрува).
type MarkDelivered struct {
	Orders domain.OrderRegistry
}

func (uc MarkDelivered) Execute(orderID string, staff bool) (domain.Order, error) {
	if !staff {
		return domain.Order{}, domain.ErrUnauthorized
	}
	var out domain.Order
	err := uc.Orders.Update(orderID, func(o *domain.Order) error {
		if o.Status.IsTerminal() {
			return domain.ErrOrderFinalized
		}
		o.Status = domain.StatusDelivered
		o.Delivered = true
		out = *o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

// CloseChannel — закрыть канал заказа: доступно владельцу или staff-у.
// Удаление откладывается, чтобы успело отрисоваться прощальное сообщение;
// ошибка удаления логируется и глотается (канал некому вернуть её).
type CloseChannel struct {
	Orders  domain.OrderRegistry
	Gateway domain.ChatGateway
	Delay   time.Duration
	Log     *slog.Logger
}

func (uc CloseChannel) Execute(orderID, userID string, staff bool) (domain.Order, error) {
	order, ok := uc.Orders.Get(orderID)
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if order.UserID != userID && !staff {
		return domain.Order{}, domain.ErrUnauthorized
	}

	channelID := order.ChannelID
	time.AfterFunc(uc.Delay, func() {
		if err := uc.Gateway.DeleteChannel(context.Background(), channelID); err != nil {
			uc.Log.Warn("delete cart channel", "order", orderID, "channel", channelID, "error", err)
		}
	})
	return order, nil
}
