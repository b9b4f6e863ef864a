package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/astro-shop-service/internal/domain"
	"github.com/example/astro-shop-service/internal/usecase"
	"github.com/shopspring/decimal"
)

const (
	stylePrimary   = "primary"
	styleSecondary = "secondary"
	styleSuccess   = "success"
	styleDanger    = "danger"
)

// money — денежный формат бразильского реала: "R$ 12,34".
func money(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func mainPanel(isStaff bool) domain.Message {
	return domain.Message{
		Content: "**🔮 ASTRO BOT — Painel de Vendas**\n\nEscolha uma opção abaixo para continuar:",
		Rows: [][]domain.Button{
			{
				{CustomID: "astro:shop", Label: "🛒 Loja", Style: stylePrimary},
				{CustomID: "astro:cart", Label: "🧺 Carrinho", Style: styleSecondary},
				{CustomID: "astro:checkout", Label: "💳 Pagamento", Style: styleSuccess},
			},
			{
				{CustomID: "astro:help", Label: "📞 Suporte", Style: styleSecondary},
				{CustomID: "astro:tos", Label: "📜 Termos", Style: styleSecondary},
				{CustomID: "astro:admin", Label: "👑 Admin", Style: styleSecondary, Disabled: !isStaff},
			},
		},
	}
}

func shopView(products []domain.Product) domain.Message {
	var sb strings.Builder
	sb.WriteString("**🛒 Loja — Produtos**\n\n")
	for _, p := range products {
		kind := "(`manual`)"
		if p.Kind == domain.FulfillCode {
			kind = "(`código`)"
		}
		fmt.Fprintf(&sb, "• **%s** — %s %s\n  ID: `%s`\n", p.Name, money(p.Price), kind, p.ID)
	}
	sb.WriteString("\nClique em um produto abaixo para adicionar ao carrinho.")

	// кнопки товаров парами в ряд
	var rows [][]domain.Button
	var row []domain.Button
	for _, p := range products {
		label := p.Name
		if len([]rune(label)) > 20 {
			label = string([]rune(label)[:20])
		}
		row = append(row, domain.Button{CustomID: "astro:add:" + p.ID, Label: label, Style: stylePrimary})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []domain.Button{
		{CustomID: "astro:back", Label: "⬅️ Voltar", Style: styleSecondary},
		{CustomID: "astro:cart", Label: "🧺 Carrinho", Style: styleSecondary},
	})

	return domain.Message{Content: sb.String(), Rows: rows}
}

func cartViewText(cart *domain.Cart, sum domain.CartSummary) string {
	if len(sum.Lines) == 0 {
		return "**🧺 Seu carrinho está vazio**\n\nVolte na Loja e adicione produtos."
	}

	var sb strings.Builder
	sb.WriteString("**🧺 Detalhes da sua compra**\n")
	sb.WriteString("Aqui estão os produtos que você escolheu.\n\n")
	fmt.Fprintf(&sb, "**Produtos no Carrinho (%d itens)**\n", len(sum.Lines))
	for _, l := range sum.Lines {
		fmt.Fprintf(&sb, "• %dx %s — %s\n", l.Qty, l.Product.Name, money(l.LineTotal))
	}
	fmt.Fprintf(&sb, "\n**Subtotal:** %s\n", money(sum.Subtotal))
	if sum.DiscountPct > 0 {
		fmt.Fprintf(&sb, "**Cupom (%s) — %d%%:** -%s\n", cart.Coupon, sum.DiscountPct, money(sum.Discount))
	}
	fmt.Fprintf(&sb, "**Valor à vista:** %s", money(sum.Total))
	return sb.String()
}

func cartView(cart *domain.Cart, sum domain.CartSummary) domain.Message {
	hasItems := !cart.Empty()
	return domain.Message{
		Content:   cartViewText(cart, sum),
		Ephemeral: true,
		Rows: [][]domain.Button{
			{
				{CustomID: "astro:checkout", Label: "✅ Ir para pagamento", Style: styleSuccess, Disabled: !hasItems},
				{CustomID: "astro:qty", Label: "🖊️ Editar quantidade", Style: stylePrimary, Disabled: !hasItems},
			},
			{
				{CustomID: "astro:coupon", Label: "🏷️ Usar cupom", Style: styleSecondary},
				{CustomID: "astro:clear", Label: "🧹 Limpar carrinho", Style: styleDanger, Disabled: !hasItems},
			},
			{
				{CustomID: "astro:back", Label: "⬅️ Voltar", Style: styleSecondary},
				{CustomID: "astro:shop", Label: "🛒 Loja", Style: styleSecondary},
			},
		},
	}
}

func checkoutView(total decimal.Decimal, pixKey, payLink string) domain.Message {
	content := "**💳 Escolha a sua forma de pagamento**\n" +
		"Dê uma última olhada na sua compra e escolha como pagar.\n\n" +
		fmt.Sprintf("**Valor à vista:** %s\n\n", money(total)) +
		fmt.Sprintf("**PIX:** `%s`\n", pixKey) +
		fmt.Sprintf("**Mercado Pago:** %s\n\n", payLink) +
		"Após pagar, clique em **📤 Enviar comprovante** (no seu canal do carrinho)."
	return domain.Message{
		Content:   content,
		Ephemeral: true,
		Rows: [][]domain.Button{
			{
				{CustomID: "astro:open_cart_channel", Label: "🛒 Abrir canal do carrinho", Style: stylePrimary},
				{CustomID: "astro:back", Label: "⬅️ Voltar", Style: styleSecondary},
			},
		},
	}
}

func cartChannelMessage(order domain.Order, cart *domain.Cart, sum domain.CartSummary, pixKey, payLink string) domain.Message {
	content := fmt.Sprintf("🛒 **Canal do Carrinho** — <@%s>\n**Pedido #%s**\n\n", order.UserID, order.ID) +
		cartViewText(cart, sum) + "\n\n" +
		"**Pagamento (manual):**\n" +
		fmt.Sprintf("PIX: `%s`\nMercado Pago: %s\n\n", pixKey, payLink) +
		"Quando pagar, clique em **📤 Enviar comprovante**."
	return domain.Message{
		Content: content,
		Rows: [][]domain.Button{
			{
				{CustomID: "astro:proof:" + order.ID, Label: "📤 Enviar comprovante", Style: stylePrimary},
				{CustomID: "astro:close:" + order.ID, Label: "🔒 Fechar", Style: styleSecondary},
			},
		},
	}
}

func proofReceivedMessage(order domain.Order, staffRoleID string) domain.Message {
	mention := "@here"
	if staffRoleID != "" {
		mention = fmt.Sprintf("<@&%s>", staffRoleID)
	}
	proof := order.Proof
	if proof == "" {
		proof = "—"
	}
	content := fmt.Sprintf("📤 **Comprovante enviado** por <@%s>\n", order.UserID) +
		fmt.Sprintf("Pedido **#%s** — Status: **AGUARDANDO APROVAÇÃO**\n\n", order.ID) +
		fmt.Sprintf("Texto/ID: `%s`\n\n%s", proof, mention)
	return domain.Message{
		Content: content,
		Rows: [][]domain.Button{
			{
				{CustomID: "astro:approve:" + order.ID, Label: "✅ Aprovar", Style: styleSuccess},
				{CustomID: "astro:reject:" + order.ID, Label: "❌ Recusar", Style: styleDanger},
				{CustomID: "astro:deliver:" + order.ID, Label: "📦 Entregar", Style: stylePrimary},
			},
		},
	}
}

func deliveryLines(results []usecase.DeliveryResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		if r.OK {
			lines = append(lines, fmt.Sprintf("✅ %s: `%s`", r.ProductName, r.Code))
		} else {
			lines = append(lines, "❌ Sem estoque para "+r.ProductName)
		}
	}
	return strings.Join(lines, "\n")
}

func deliveryDM(orderID string, results []usecase.DeliveryResult) string {
	return fmt.Sprintf("📦 **Entrega automática — Pedido #%s**\n\n%s\n\nObrigado pela compra!",
		orderID, deliveryLines(results))
}

func couponModal() domain.Modal {
	return domain.Modal{
		CustomID: "astro:modal:coupon",
		Title:    "Cupom de desconto",
		Inputs: []domain.ModalInput{
			{CustomID: "coupon", Label: "Digite o cupom (ex: ASTRO10)", Required: true},
		},
	}
}

func qtyModal(cart *domain.Cart) domain.Modal {
	pairs := make([]string, 0, len(cart.Items))
	for _, it := range cart.Items {
		pairs = append(pairs, fmt.Sprintf("%s=%d", it.ProductID, it.Qty))
	}
	value := strings.Join(pairs, ",")
	if value == "" {
		value = "ff110=1"
	}
	return domain.Modal{
		CustomID: "astro:modal:qty",
		Title:    "Editar quantidades",
		Inputs: []domain.ModalInput{
			{CustomID: "qty", Label: "Formato: ff110=2,rbx400=1 (0 remove)", Value: value, Paragraph: true, Required: true},
		},
	}
}

func proofModal(orderID string) domain.Modal {
	return domain.Modal{
		CustomID: "astro:modal:proof:" + orderID,
		Title:    "Enviar comprovante",
		Inputs: []domain.ModalInput{
			{CustomID: "proof", Label: "Cole o TXID / info do Pix (ou 'pago')", Paragraph: true},
		},
	}
}

const (
	helpText = "📞 **Suporte:** fale com a staff do servidor. Se quiser, eu posso abrir um canal privado pelo checkout."
	tosText  = "📜 **Termos (resumo):**\n" +
		"• Compras digitais podem levar alguns minutos.\n" +
		"• Pagamento confirmado = início do atendimento.\n" +
		"• Evite chargeback. Fraudes geram ban.\n"
	adminText = "👑 **Admin (rápido):**\n" +
		"• Aprovar/recusar/entregar aparece dentro do canal do carrinho quando o usuário enviar comprovante.\n" +
		"• Estoque de códigos está no `db.json` (chave `stock`).\n"
	genericErrText = "⚠️ Ocorreu um erro. Veja os logs."
)

// errText — пользовательские тексты доменных ошибок.
func errText(err error) string {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return "❌ Produto inválido."
	case errors.Is(err, domain.ErrInvalidCoupon):
		return "❌ Cupom inválido."
	case errors.Is(err, domain.ErrEmptyCart):
		return "🧺 Seu carrinho está vazio."
	case errors.Is(err, domain.ErrOrderNotFound):
		return "❌ Pedido não encontrado."
	case errors.Is(err, domain.ErrUnauthorized):
		return "❌ Sem permissão."
	case errors.Is(err, domain.ErrOrderFinalized):
		return "❌ Pedido já finalizado (ENTREGUE/RECUSADO)."
	}
	return genericErrText
}
