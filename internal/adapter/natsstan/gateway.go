package natsstan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/astro-shop-service/internal/domain"
	"github.com/google/uuid"
)

// Publisher — минимальный срез stan.Conn, нужный шлюзу.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// OutboundCommand — исходящая команда чат-платформе. Коннектор платформы
// потребляет Subject и исполняет команду; ответов не шлёт, идентификатор
// создаваемого канала назначается здесь же.
type OutboundCommand struct {
	Type          string          `json:"type"`
	InteractionID string          `json:"interaction_id,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	ChannelID     string          `json:"channel_id,omitempty"`
	ChannelName   string          `json:"channel_name,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	StaffRoleID   string          `json:"staff_role_id,omitempty"`
	Message       *domain.Message `json:"message,omitempty"`
	Modal         *domain.Modal   `json:"modal,omitempty"`
}

const (
	cmdReply          = "reply"
	cmdUpdate         = "update"
	cmdModal          = "show_modal"
	cmdCreateChannel  = "create_channel"
	cmdDeleteChannel  = "delete_channel"
	cmdChannelMessage = "channel_message"
	cmdDirectMessage  = "direct_message"
)

// Gateway — исходящий шлюз чат-платформы поверх STAN.
type Gateway struct {
	Conn        Publisher
	Subject     string
	StaffRoleID string
	CategoryID  string
}

func (g *Gateway) publish(cmd OutboundCommand) error {
	raw, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode outbound command: %w", err)
	}
	if err := g.Conn.Publish(g.Subject, raw); err != nil {
		return fmt.Errorf("publish %s: %w", cmd.Type, err)
	}
	return nil
}

func (g *Gateway) Reply(_ context.Context, interactionID string, msg domain.Message) error {
	return g.publish(OutboundCommand{Type: cmdReply, InteractionID: interactionID, Message: &msg})
}

func (g *Gateway) Update(_ context.Context, interactionID string, msg domain.Message) error {
	return g.publish(OutboundCommand{Type: cmdUpdate, InteractionID: interactionID, Message: &msg})
}

func (g *Gateway) ShowModal(_ context.Context, interactionID string, m domain.Modal) error {
	return g.publish(OutboundCommand{Type: cmdModal, InteractionID: interactionID, Modal: &m})
}

// CreateCartChannel — приватный канал покупателя. Видимость: покупатель и
// staff-роль; канал группируется в настроенную категорию.
func (g *Gateway) CreateCartChannel(_ context.Context, userID, username string) (string, error) {
	channelID := uuid.NewString()
	suffix := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	cmd := OutboundCommand{
		Type:        cmdCreateChannel,
		UserID:      userID,
		ChannelID:   channelID,
		ChannelName: fmt.Sprintf("carrinho_%s_%s", username, suffix),
		CategoryID:  g.CategoryID,
		StaffRoleID: g.StaffRoleID,
	}
	if err := g.publish(cmd); err != nil {
		return "", err
	}
	return channelID, nil
}

func (g *Gateway) DeleteChannel(_ context.Context, channelID string) error {
	return g.publish(OutboundCommand{Type: cmdDeleteChannel, ChannelID: channelID})
}

func (g *Gateway) SendChannelMessage(_ context.Context, channelID string, msg domain.Message) error {
	return g.publish(OutboundCommand{Type: cmdChannelMessage, ChannelID: channelID, Message: &msg})
}

func (g *Gateway) SendDirectMessage(_ context.Context, userID, content string) error {
	return g.publish(OutboundCommand{Type: cmdDirectMessage, UserID: userID, Message: &domain.Message{Content: content}})
}

var _ domain.ChatGateway = (*Gateway)(nil)
