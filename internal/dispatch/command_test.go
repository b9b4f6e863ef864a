package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		ev   InteractionEvent
		want Command
	}{
		{
			name: "slash command",
			ev:   InteractionEvent{Kind: KindCommand, Command: "astro"},
			want: OpenPanel{},
		},
		{
			name: "shop button",
			ev:   InteractionEvent{Kind: KindButton, CustomID: "astro:shop"},
			want: Shop{},
		},
		{
			name: "add product",
			ev:   InteractionEvent{Kind: KindButton, CustomID: "astro:add:ff110"},
			want: AddItem{ProductID: "ff110"},
		},
		{
			name: "approve order",
			ev:   InteractionEvent{Kind: KindButton, CustomID: "astro:approve:0004"},
			want: Approve{OrderID: "0004"},
		},
		{
			name: "close channel",
			ev:   InteractionEvent{Kind: KindButton, CustomID: "astro:close:0002"},
			want: CloseChannel{OrderID: "0002"},
		},
		{
			name: "coupon modal submit",
			ev:   InteractionEvent{Kind: KindModal, CustomID: "astro:modal:coupon", Values: map[string]string{"coupon": "astro10"}},
			want: ApplyCoupon{Code: "astro10"},
		},
		{
			name: "qty modal submit",
			ev:   InteractionEvent{Kind: KindModal, CustomID: "astro:modal:qty", Values: map[string]string{"qty": "ff110=2"}},
			want: EditQuantities{Raw: "ff110=2"},
		},
		{
			name: "proof modal submit",
			ev:   InteractionEvent{Kind: KindModal, CustomID: "astro:modal:proof:0001", Values: map[string]string{"proof": " pago "}},
			want: SubmitProof{OrderID: "0001", Text: "pago"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(&tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandUnknown(t *testing.T) {
	tests := []struct {
		name string
		ev   InteractionEvent
	}{
		{"unknown slash", InteractionEvent{Kind: KindCommand, Command: "ping"}},
		{"unknown button", InteractionEvent{Kind: KindButton, CustomID: "other:thing"}},
		{"empty order id", InteractionEvent{Kind: KindButton, CustomID: "astro:approve:"}},
		{"unknown modal", InteractionEvent{Kind: KindModal, CustomID: "astro:modal:wat"}},
		{"unknown kind", InteractionEvent{Kind: "webhook"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommand(&tt.ev)
			assert.ErrorIs(t, err, ErrUnknownAction)
		})
	}
}
