package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus — статус заказа в цикле оплаты и выдачи.
type OrderStatus string

const (
	StatusAwaitingPayment  OrderStatus = "AGUARDANDO_PAGAMENTO"
	StatusAwaitingApproval OrderStatus = "AGUARDANDO_APROVACAO"
	StatusApproved         OrderStatus = "APROVADO"
	StatusDelivered        OrderStatus = "ENTREGUE"
	StatusRejected         OrderStatus = "RECUSADO"
)

var statusIsTerminal = map[OrderStatus]bool{
	StatusAwaitingPayment:  false,
	StatusAwaitingApproval: false,
	StatusApproved:         false,
	StatusDelivered:        true,
	StatusRejected:         true,
}

// IsTerminal сообщает, допускает ли статус дальнейшие переходы.
func (s OrderStatus) IsTerminal() bool { return statusIsTerminal[s] }

// Order — доменная сущность заказа. Позиции — снимок корзины по значению,
// сумма фиксируется при оформлении и дальше не пересчитывается.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Items     []CartItem      `json:"items"`
	Coupon    string          `json:"coupon,omitempty"`
	Total     decimal.Decimal `json:"total"`
	ChannelID string          `json:"channel_id"`
	Proof     string          `json:"proof,omitempty"`
	Delivered bool            `json:"delivered"`
	CreatedAt time.Time       `json:"created_at"`
	Status    OrderStatus     `json:"status"`
}
