package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/example/astro-shop-service/internal/audit"
	"github.com/example/astro-shop-service/internal/domain"
	"github.com/example/astro-shop-service/internal/usecase"
	"github.com/go-playground/validator/v10"
)

// Dispatcher — единая точка входа событий взаимодействий: конверт
// валидируется, идентификатор действия декодируется в типизированную
// команду, дальше исчерпывающий switch по юзкейсам.
type Dispatcher struct {
	log      *slog.Logger
	validate *validator.Validate
	gateway  domain.ChatGateway
	audit    *audit.Logger

	carts   domain.CartRegistry
	orders  domain.OrderRegistry
	catalog domain.CatalogStore

	staffRoleID string
	pixKey      string
	payLink     string

	openSession usecase.OpenSession
	addItem     usecase.AddItem
	setQty      usecase.SetQuantities
	applyCoupon usecase.ApplyCoupon
	clearCart   usecase.ClearCart
	createOrder usecase.CreateOrder
	submitProof usecase.SubmitProof
	approve     usecase.Approve
	reject      usecase.Reject
	deliver     usecase.MarkDelivered
	closeChan   usecase.CloseChannel
}

// Deps — зависимости диспетчера.
type Deps struct {
	Log         *slog.Logger
	Validate    *validator.Validate
	Gateway     domain.ChatGateway
	Audit       *audit.Logger
	Carts       domain.CartRegistry
	Orders      domain.OrderRegistry
	Catalog     domain.CatalogStore
	StaffRoleID string
	PixKey      string
	PayLink     string
	// CloseDelay — пауза перед удалением канала, чтобы успело
	// отрисоваться прощальное сообщение.
	CloseDelay time.Duration
}

func New(d Deps) *Dispatcher {
	return &Dispatcher{
		log:         d.Log,
		validate:    d.Validate,
		gateway:     d.Gateway,
		audit:       d.Audit,
		carts:       d.Carts,
		orders:      d.Orders,
		catalog:     d.Catalog,
		staffRoleID: d.StaffRoleID,
		pixKey:      d.PixKey,
		payLink:     d.PayLink,
		openSession: usecase.OpenSession{Carts: d.Carts},
		addItem:     usecase.AddItem{Carts: d.Carts, Catalog: d.Catalog},
		setQty:      usecase.SetQuantities{Carts: d.Carts},
		applyCoupon: usecase.ApplyCoupon{Carts: d.Carts, Catalog: d.Catalog},
		clearCart:   usecase.ClearCart{Carts: d.Carts},
		createOrder: usecase.CreateOrder{Carts: d.Carts, Orders: d.Orders, Catalog: d.Catalog, Gateway: d.Gateway},
		submitProof: usecase.SubmitProof{Orders: d.Orders},
		approve:     usecase.Approve{Orders: d.Orders, Catalog: d.Catalog, Log: d.Log},
		reject:      usecase.Reject{Orders: d.Orders},
		deliver:     usecase.MarkDelivered{Orders: d.Orders},
		closeChan:   usecase.CloseChannel{Orders: d.Orders, Gateway: d.Gateway, Delay: d.CloseDelay, Log: d.Log},
	}
}

func (d *Dispatcher) isStaff(ev *InteractionEvent) bool {
	if ev.IsAdmin {
		return true
	}
	return d.staffRoleID != "" && slices.Contains(ev.RoleIDs, d.staffRoleID)
}

// Handle разбирает и исполняет одно событие. Ошибка наружу не уходит:
// битые конверты дропаются, паника гасится с generic-ответом пользователю,
// процесс продолжает работать.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) (err error) {
	var ev InteractionEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		d.log.Error("decode interaction", "error", err)
		return nil
	}
	if err := d.validate.Struct(&ev); err != nil {
		d.log.Error("invalid interaction envelope", "error", err)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("dispatcher panic", "event", ev.EventID, "panic", r)
			d.replyEphemeral(ctx, &ev, genericErrText)
			err = nil
		}
	}()

	cmd, perr := ParseCommand(&ev)
	if perr != nil {
		d.log.Warn("unhandled action", "event", ev.EventID, "error", perr)
		return nil
	}

	d.log.Debug("interaction", "event", ev.EventID, "user", ev.UserID, "command", fmt.Sprintf("%T", cmd))

	switch cmd := cmd.(type) {
	case OpenPanel:
		d.handleOpenPanel(ctx, &ev)
	case Back:
		d.send(ctx, &ev, d.gateway.Update(ctx, ev.InteractionID, mainPanel(d.isStaff(&ev))))
	case Help:
		d.replyEphemeral(ctx, &ev, helpText)
	case Terms:
		d.replyEphemeral(ctx, &ev, tosText)
	case AdminHint:
		if !d.isStaff(&ev) {
			d.replyEphemeral(ctx, &ev, errText(domain.ErrUnauthorized))
			return nil
		}
		d.replyEphemeral(ctx, &ev, adminText)
	case Shop:
		d.send(ctx, &ev, d.gateway.Update(ctx, ev.InteractionID, shopView(d.catalog.Products())))
	case ShowCart:
		cart := d.carts.GetOrCreate(ev.UserID)
		d.send(ctx, &ev, d.gateway.Reply(ctx, ev.InteractionID, cartView(cart, domain.ComputeCart(cart, d.catalog))))
	case AddItem:
		d.handleAddItem(ctx, &ev, cmd)
	case OpenCouponModal:
		d.send(ctx, &ev, d.gateway.ShowModal(ctx, ev.InteractionID, couponModal()))
	case OpenQtyModal:
		d.send(ctx, &ev, d.gateway.ShowModal(ctx, ev.InteractionID, qtyModal(d.carts.GetOrCreate(ev.UserID))))
	case OpenProofModal:
		d.handleOpenProofModal(ctx, &ev, cmd)
	case ApplyCoupon:
		d.handleApplyCoupon(ctx, &ev, cmd)
	case EditQuantities:
		d.handleEditQuantities(ctx, &ev, cmd)
	case SubmitProof:
		d.handleSubmitProof(ctx, &ev, cmd)
	case ClearCart:
		d.clearCart.Execute(ev.UserID)
		d.replyEphemeral(ctx, &ev, "🧹 Carrinho limpo.")
		d.audit.Event(ctx, "🧹 <@%s> limpou o carrinho", ev.UserID)
	case Checkout:
		d.handleCheckout(ctx, &ev)
	case OpenCartChannel:
		d.handleOpenCartChannel(ctx, &ev)
	case Approve:
		d.handleApprove(ctx, &ev, cmd)
	case Reject:
		d.handleReject(ctx, &ev, cmd)
	case Deliver:
		d.handleDeliver(ctx, &ev, cmd)
	case CloseChannel:
		d.handleCloseChannel(ctx, &ev, cmd)
	}
	return nil
}

// send логирует ошибку исходящего вызова шлюза; взаимодействие при этом
// считается обработанным — ретраев нет.
func (d *Dispatcher) send(_ context.Context, ev *InteractionEvent, err error) {
	if err != nil {
		d.log.Error("gateway call failed", "event", ev.EventID, "error", err)
	}
}

func (d *Dispatcher) replyEphemeral(ctx context.Context, ev *InteractionEvent, text string) {
	d.send(ctx, ev, d.gateway.Reply(ctx, ev.InteractionID, domain.Message{Content: text, Ephemeral: true}))
}

func (d *Dispatcher) handleOpenPanel(ctx context.Context, ev *InteractionEvent) {
	d.openSession.Execute(ev.UserID)
	d.send(ctx, ev, d.gateway.Reply(ctx, ev.InteractionID, mainPanel(d.isStaff(ev))))
	d.audit.Event(ctx, "🟣 **/astro** aberto por <@%s>", ev.UserID)
}

func (d *Dispatcher) handleAddItem(ctx context.Context, ev *InteractionEvent, cmd AddItem) {
	p, err := d.addItem.Execute(ev.UserID, cmd.ProductID)
	if err != nil {
		d.replyEphemeral(ctx, ev, errText(err))
		return
	}
	d.replyEphemeral(ctx, ev, fmt.Sprintf("✅ Adicionado ao carrinho: **%s**", p.Name))
	d.audit.Event(ctx, "➕ <@%s> adicionou **%s** ao carrinho", ev.UserID, p.Name)
}

func (d *Dispatcher) handleApplyCoupon(ctx context.Context, ev *InteractionEvent, cmd ApplyCoupon) {
	code, pct, err := d.applyCoupon.Execute(ev.UserID, cmd.Code)
	if err != nil {
		d.replyEphemeral(ctx, ev, errText(err))
		return
	}
	d.replyEphemeral(ctx, ev, fmt.Sprintf("✅ Cupom aplicado: **%s** (%d%%)", code, pct))
	d.audit.Event(ctx, "🏷️ Cupom **%s** aplicado por <@%s>", code, ev.UserID)
}

func (d *Dispatcher) handleEditQuantities(ctx context.Context, ev *InteractionEvent, cmd EditQuantities) {
	var updates []usecase.QtyUpdate
	for _, part := range strings.Split(cmd.Raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, qty, _ := strings.Cut(part, "=")
		updates = append(updates, usecase.QtyUpdate{ProductID: strings.TrimSpace(id), Qty: qty})
	}

	_, skipped := d.setQty.Execute(ev.UserID, updates)
	reply := "✅ Quantidades atualizadas."
	if len(skipped) > 0 {
		reply += fmt.Sprintf("\n⚠️ Entradas ignoradas: `%s`", strings.Join(skipped, "`, `"))
	}
	d.replyEphemeral(ctx, ev, reply)
	d.audit.Event(ctx, "🧺 Quantidades editadas por <@%s>", ev.UserID)
}

func (d *Dispatcher) handleCheckout(ctx context.Context, ev *InteractionEvent) {
	cart := d.carts.GetOrCreate(ev.UserID)
	if cart.Empty() {
		d.replyEphemeral(ctx, ev, errText(domain.ErrEmptyCart))
		return
	}
	sum := domain.ComputeCart(cart, d.catalog)
	d.send(ctx, ev, d.gateway.Reply(ctx, ev.InteractionID, checkoutView(sum.Total, d.pixKey, d.payLink)))
}

func (d *Dispatcher) handleOpenCartChannel(ctx context.Context, ev *InteractionEvent) {
	order, sum, err := d.createOrder.Execute(ctx, ev.UserID, ev.Username)
	if err != nil {
		d.replyEphemeral(ctx, ev, errText(err))
		if !errors.Is(err, domain.ErrEmptyCart) {
			d.log.Error("create order", "event", ev.EventID, "error", err)
		}
		return
	}

	cart := d.carts.GetOrCreate(ev.UserID)
	d.send(ctx, ev, d.gateway.SendChannelMessage(ctx, order.ChannelID,
		cartChannelMessage(order, cart, sum, d.pixKey, d.payLink)))
	d.replyEphemeral(ctx, ev, fmt.Sprintf("✅ Canal criado: <#%s>\nPedido **#%s** — Total: **%s**",
		order.ChannelID, order.ID, money(order.Total)))
	d.audit.Event(ctx, "🧾 Pedido **#%s** criado por <@%s> — Total %s — Canal <#%s>",
		order.ID, ev.UserID, money(order.Total), order.ChannelID)
}

func (d *Dispatcher) handleOpenProofModal(ctx context.Context, ev *InteractionEvent, cmd OpenProofModal) {
	order, ok := d.orders.Get(cmd.OrderID)
	if !ok {
		d.replyEphemeral(ctx, ev, errText(domain.ErrOrderNotFound))
		return
	}
	if order.UserID != ev.UserID && !d.isStaff(ev) {
		d.replyEphemeral(ctx, ev, errText(domain.ErrUnauthorized))
		return
	}
	d.send(ctx, ev, d.gateway.ShowModal(ctx, ev.InteractionID, proofModal(cmd.OrderID)))
}

func (d *Dispatcher) handleSubmitProof(ctx context.Context, ev *InteractionEvent, cmd SubmitProof) {
	order, err := d.submitProof.Execute(cmd.OrderID, ev.UserID, d.isStaff(ev), cmd.Text)
	if err != nil {
		d.replyEphemeral(ctx, ev, errText(err))
		return
	}
	d.send(ctx, ev, d.gateway.SendChannelMessage(ctx, order.ChannelID, proofReceivedMessage(order, d.staffRoleID)))
	d.replyEphemeral(ctx, ev, "✅ Comprovante enviado! Aguarde aprovação da staff.")
	d.audit.Event(ctx, "📤 Comprovante enviado por <@%s> no pedido #%s", order.UserID, order.ID)
}

func (d *Dispatcher) handleApprove(ctx context.Context, ev *InteractionEvent, cmd Approve) {
	order, results, err := d.approve.Execute(cmd.OrderID, d.isStaff(ev))
	if err != nil {
		d.replyEphemeral(ctx, ev, errText(err))
		return
	}
	d.replyEphemeral(ctx, ev, fmt.Sprintf("✅ Pedido #%s aprovado.", order.ID))
	d.audit.Event(ctx, "✅ Pedido #%s aprovado por <@%s>", order.ID, ev.UserID)

	if len(results) == 0 {
		return
	}
	// автоматическая выдача: полный список кодов в DM, сводка в канал
	d.send(ctx, ev, d.gateway.SendDirectMessage(ctx, order.UserID, deliveryDM(order.ID, results)))
	d.send(ctx, ev, d.gateway.SendChannelMessage(ctx, order.ChannelID, domain.Message{
		Content: fmt.Sprintf("📦 **Entrega automática enviada por DM** para <@%s>.\n\n%s",
			order.UserID, deliveryLines(results)),
	}))
	d.audit.Event(ctx, "📦 Entrega automática concluída no pedido #%s", order.ID)
}

func (d *Dispatcher) handleReject(ctx context.Context, ev *InteractionEvent, cmd Reject) {
	order, err := d.reject.Execute(cmd.OrderID, d.isStaff(ev))
	if err != nil {
		d.replyEphemeral(ctx, ev, errText(err))
		return
	}
	d.replyEphemeral(ctx, ev, fmt.Sprintf("❌ Pedido #%s recusado.", order.ID))
	d.send(ctx, ev, d.gateway.SendChannelMessage(ctx, order.ChannelID, domain.Message{
		Content: fmt.Sprintf("❌ Pedido **#%s** foi **RECUSADO** pela staff.", order.ID),
	}))
	d.audit.Event(ctx, "❌ Pedido #%s recusado por <@%s>", order.ID, ev.UserID)
}

func (d *Dispatcher) handleDeliver(ctx context.Context, ev *InteractionEvent, cmd Deliver) {
	order, err := d.deliver.Execute(cmd.OrderID, d.isStaff(ev))
	if err != nil {
		d.replyEphemeral(ctx, ev, errText(err))
		return
	}
	d.replyEphemeral(ctx, ev, fmt.Sprintf("📦 Pedido #%s marcado como ENTREGUE.", order.ID))
	d.send(ctx, ev, d.gateway.SendChannelMessage(ctx, order.ChannelID, domain.Message{
		Content: fmt.Sprintf("📦 Pedido **#%s** foi marcado como **ENTREGUE**.", order.ID),
	}))
	d.audit.Event(ctx, "📦 Pedido #%s marcado como entregue por <@%s>", order.ID, ev.UserID)
}

func (d *Dispatcher) handleCloseChannel(ctx context.Context, ev *InteractionEvent, cmd CloseChannel) {
	order, err := d.closeChan.Execute(cmd.OrderID, ev.UserID, d.isStaff(ev))
	if err != nil {
		d.replyEphemeral(ctx, ev, errText(err))
		return
	}
	d.replyEphemeral(ctx, ev, "🔒 Canal será fechado.")
	d.audit.Event(ctx, "🔒 Pedido #%s canal fechado por <@%s>", order.ID, ev.UserID)
}
