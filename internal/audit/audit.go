package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/astro-shop-service/internal/domain"
)

// Logger — аудиторский след значимых действий в лог-канале чат-платформы.
// Best-effort: без лог-канала молчит, ошибка отправки уходит в slog и
// глотается.
type Logger struct {
	Gateway   domain.ChatGateway
	ChannelID string
	Log       *slog.Logger
}

func (l *Logger) Event(ctx context.Context, format string, args ...any) {
	if l == nil || l.ChannelID == "" {
		return
	}
	text := fmt.Sprintf(format, args...)
	if err := l.Gateway.SendChannelMessage(ctx, l.ChannelID, domain.Message{Content: text}); err != nil {
		l.Log.Warn("audit send failed", "error", err)
	}
}
