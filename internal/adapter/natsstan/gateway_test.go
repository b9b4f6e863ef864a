package natsstan

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/example/astro-shop-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	subject string
	data    [][]byte
}

func (p *capturePublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.data = append(p.data, data)
	return nil
}

func (p *capturePublisher) last(t *testing.T) OutboundCommand {
	t.Helper()
	require.NotEmpty(t, p.data)
	var cmd OutboundCommand
	require.NoError(t, json.Unmarshal(p.data[len(p.data)-1], &cmd))
	return cmd
}

func TestGatewayReply(t *testing.T) {
	pub := &capturePublisher{}
	g := &Gateway{Conn: pub, Subject: "chat.outbound"}

	err := g.Reply(context.Background(), "itx-1", domain.Message{Content: "olá", Ephemeral: true})
	require.NoError(t, err)

	cmd := pub.last(t)
	assert.Equal(t, "chat.outbound", pub.subject)
	assert.Equal(t, "reply", cmd.Type)
	assert.Equal(t, "itx-1", cmd.InteractionID)
	require.NotNil(t, cmd.Message)
	assert.Equal(t, "olá", cmd.Message.Content)
	assert.True(t, cmd.Message.Ephemeral)
}

func TestGatewayCreateCartChannel(t *testing.T) {
	pub := &capturePublisher{}
	g := &Gateway{Conn: pub, Subject: "chat.outbound", StaffRoleID: "staff-1", CategoryID: "cat-1"}

	id, err := g.CreateCartChannel(context.Background(), "u1", "joao")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cmd := pub.last(t)
	assert.Equal(t, "create_channel", cmd.Type)
	assert.Equal(t, id, cmd.ChannelID)
	assert.Equal(t, "u1", cmd.UserID)
	assert.Equal(t, "staff-1", cmd.StaffRoleID)
	assert.Equal(t, "cat-1", cmd.CategoryID)
	assert.Regexp(t, `^carrinho_joao_\d{1,6}$`, cmd.ChannelName)
}

func TestGatewayDirectMessage(t *testing.T) {
	pub := &capturePublisher{}
	g := &Gateway{Conn: pub, Subject: "chat.outbound"}

	require.NoError(t, g.SendDirectMessage(context.Background(), "u1", "código: X"))
	cmd := pub.last(t)
	assert.Equal(t, "direct_message", cmd.Type)
	assert.Equal(t, "u1", cmd.UserID)
	assert.Equal(t, "código: X", cmd.Message.Content)
}
