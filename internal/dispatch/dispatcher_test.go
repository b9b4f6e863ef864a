package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/example/astro-shop-service/internal/adapter/catalogdb"
	"github.com/example/astro-shop-service/internal/adapter/memstore"
	"github.com/example/astro-shop-service/internal/audit"
	"github.com/example/astro-shop-service/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordGateway — шлюз-магнитофон: копит все исходящие вызовы.
type recordGateway struct {
	mu       sync.Mutex
	replies  []domain.Message
	updates  []domain.Message
	modals   []domain.Modal
	channels map[string][]domain.Message
	dms      map[string][]string
	created  int
}

func newRecordGateway() *recordGateway {
	return &recordGateway{
		channels: make(map[string][]domain.Message),
		dms:      make(map[string][]string),
	}
}

func (g *recordGateway) Reply(_ context.Context, _ string, msg domain.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies = append(g.replies, msg)
	return nil
}

func (g *recordGateway) Update(_ context.Context, _ string, msg domain.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates = append(g.updates, msg)
	return nil
}

func (g *recordGateway) ShowModal(_ context.Context, _ string, m domain.Modal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modals = append(g.modals, m)
	return nil
}

func (g *recordGateway) CreateCartChannel(_ context.Context, userID, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created++
	return "chan-" + userID, nil
}

func (g *recordGateway) DeleteChannel(context.Context, string) error { return nil }

func (g *recordGateway) SendChannelMessage(_ context.Context, channelID string, msg domain.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels[channelID] = append(g.channels[channelID], msg)
	return nil
}

func (g *recordGateway) SendDirectMessage(_ context.Context, userID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dms[userID] = append(g.dms[userID], content)
	return nil
}

func (g *recordGateway) lastReply(t *testing.T) domain.Message {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	require.NotEmpty(t, g.replies)
	return g.replies[len(g.replies)-1]
}

type testEnv struct {
	d       *Dispatcher
	gw      *recordGateway
	catalog *catalogdb.FileStore
	orders  *memstore.MemoryOrderRegistry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	catalog, err := catalogdb.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	gw := newRecordGateway()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orders := memstore.NewMemoryOrderRegistry()
	d := New(Deps{
		Log:         log,
		Validate:    validator.New(),
		Gateway:     gw,
		Audit:       &audit.Logger{Gateway: gw, ChannelID: "log-chan", Log: log},
		Carts:       memstore.NewMemoryCartRegistry(),
		Orders:      orders,
		Catalog:     catalog,
		StaffRoleID: "staff-role",
		PixKey:      "pix@astro.gg",
		PayLink:     "https://mp.example/pay",
	})
	return &testEnv{d: d, gw: gw, catalog: catalog, orders: orders}
}

func (e *testEnv) fire(t *testing.T, ev InteractionEvent) {
	t.Helper()
	if ev.EventID == "" {
		ev.EventID = "evt"
	}
	if ev.InteractionID == "" {
		ev.InteractionID = "itx"
	}
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, e.d.Handle(context.Background(), raw))
}

func buyer(kind, customID string) InteractionEvent {
	return InteractionEvent{Kind: kind, CustomID: customID, UserID: "u1", Username: "joao"}
}

func staff(kind, customID string) InteractionEvent {
	ev := InteractionEvent{Kind: kind, CustomID: customID, UserID: "staff1", Username: "ana"}
	ev.RoleIDs = []string{"staff-role"}
	return ev
}

func TestHandleMalformedEnvelope(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.d.Handle(context.Background(), []byte("{not json")))
	assert.NoError(t, env.d.Handle(context.Background(), []byte(`{"kind":"button"}`)), "missing required fields are dropped")
	assert.Empty(t, env.gw.replies)
}

func TestHandleUnknownActionIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.fire(t, buyer(KindButton, "astro:wat"))
	assert.Empty(t, env.gw.replies)
}

func TestFullPurchaseFlow(t *testing.T) {
	env := newTestEnv(t)

	// /astro открывает панель и сбрасывает корзину
	env.fire(t, InteractionEvent{Kind: KindCommand, Command: "astro", UserID: "u1", Username: "joao"})
	assert.Contains(t, env.gw.lastReply(t).Content, "Painel de Vendas")

	// товар в корзину, купон
	env.fire(t, buyer(KindButton, "astro:add:gift10"))
	assert.Contains(t, env.gw.lastReply(t).Content, "Adicionado ao carrinho")

	env.fire(t, InteractionEvent{Kind: KindModal, CustomID: "astro:modal:coupon",
		Values: map[string]string{"coupon": "astro10"}, UserID: "u1", Username: "joao"})
	assert.Contains(t, env.gw.lastReply(t).Content, "ASTRO10")

	// checkout и открытие канала (создание заказа)
	env.fire(t, buyer(KindButton, "astro:open_cart_channel"))
	reply := env.gw.lastReply(t)
	assert.Contains(t, reply.Content, "Pedido **#0001**")
	assert.Contains(t, reply.Content, "R$ 9,00", "10.00 minus 10% coupon")
	require.Equal(t, 1, env.gw.created)

	order, ok := env.orders.Get("0001")
	require.True(t, ok)
	assert.Equal(t, domain.StatusAwaitingPayment, order.Status)
	assert.Equal(t, "chan-u1", order.ChannelID)

	// подтверждение оплаты
	env.fire(t, InteractionEvent{Kind: KindModal, CustomID: "astro:modal:proof:0001",
		Values: map[string]string{"proof": "TX123"}, UserID: "u1", Username: "joao"})
	order, _ = env.orders.Get("0001")
	assert.Equal(t, domain.StatusAwaitingApproval, order.Status)
	assert.Equal(t, "TX123", order.Proof)

	// staff аппрувит — автоматическая выдача кода
	env.fire(t, staff(KindButton, "astro:approve:0001"))
	order, _ = env.orders.Get("0001")
	assert.Equal(t, domain.StatusDelivered, order.Status)
	assert.True(t, order.Delivered)

	require.Len(t, env.gw.dms["u1"], 1)
	assert.Contains(t, env.gw.dms["u1"][0], "CODIGO-AAAA-1111")
	assert.Equal(t, []string{"CODIGO-BBBB-2222"}, env.catalog.StockCodes("GIFT-10"))

	// сводка в канале заказа
	var mirrored bool
	for _, msg := range env.gw.channels["chan-u1"] {
		if strings.Contains(msg.Content, "Entrega automática enviada por DM") {
			mirrored = true
		}
	}
	assert.True(t, mirrored)
}

func TestApproveDeniedForNonStaff(t *testing.T) {
	env := newTestEnv(t)
	env.orders.Put(domain.Order{ID: env.orders.NextID(), UserID: "u1", ChannelID: "chan-u1", Status: domain.StatusAwaitingApproval})

	env.fire(t, buyer(KindButton, "astro:approve:0001"))
	assert.Contains(t, env.gw.lastReply(t).Content, "Sem permissão")
	o, _ := env.orders.Get("0001")
	assert.Equal(t, domain.StatusAwaitingApproval, o.Status, "denied call must not mutate")
}

func TestAdminFlagGrantsStaff(t *testing.T) {
	env := newTestEnv(t)
	env.orders.Put(domain.Order{ID: env.orders.NextID(), UserID: "u1", ChannelID: "chan-u1", Status: domain.StatusAwaitingApproval})

	ev := InteractionEvent{Kind: KindButton, CustomID: "astro:reject:0001", UserID: "admin1", IsAdmin: true}
	env.fire(t, ev)
	o, _ := env.orders.Get("0001")
	assert.Equal(t, domain.StatusRejected, o.Status)
}

func TestEditQuantitiesReportsSkipped(t *testing.T) {
	env := newTestEnv(t)
	env.fire(t, buyer(KindButton, "astro:add:ff110"))
	env.fire(t, buyer(KindButton, "astro:add:rbx400"))

	env.fire(t, InteractionEvent{Kind: KindModal, CustomID: "astro:modal:qty",
		Values: map[string]string{"qty": "ff110=3,rbx400=x"}, UserID: "u1"})

	reply := env.gw.lastReply(t)
	assert.Contains(t, reply.Content, "Quantidades atualizadas")
	assert.Contains(t, reply.Content, "rbx400=x", "malformed entries are echoed back")
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	env.fire(t, buyer(KindButton, "astro:checkout"))
	assert.Contains(t, env.gw.lastReply(t).Content, "carrinho está vazio")
}

func TestProofModalOwnershipCheck(t *testing.T) {
	env := newTestEnv(t)
	env.orders.Put(domain.Order{ID: env.orders.NextID(), UserID: "u1", ChannelID: "chan-u1", Status: domain.StatusAwaitingPayment})

	intruder := InteractionEvent{Kind: KindButton, CustomID: "astro:proof:0001", UserID: "u2"}
	env.fire(t, intruder)
	assert.Contains(t, env.gw.lastReply(t).Content, "Sem permissão")
	assert.Empty(t, env.gw.modals)

	env.fire(t, buyer(KindButton, "astro:proof:0001"))
	require.Len(t, env.gw.modals, 1)
	assert.Equal(t, "astro:modal:proof:0001", env.gw.modals[0].CustomID)
}

func TestMoneyFormat(t *testing.T) {
	sum := domain.ComputeCart(&domain.Cart{}, nopLookup{})
	assert.Equal(t, "R$ 0,00", money(sum.Total))
}

type nopLookup struct{}

func (nopLookup) Product(string) (domain.Product, bool) { return domain.Product{}, false }
func (nopLookup) CouponPercent(string) (int, bool)      { return 0, false }
