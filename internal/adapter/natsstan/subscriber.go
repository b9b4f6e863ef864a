package natsstan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/astro-shop-service/internal/domain"
	stan "github.com/nats-io/stan.go"
)

// Subscriber — подписчик на события взаимодействий чат-платформы.
// Коннектор платформы публикует каждое нажатие кнопки / сабмит формы /
// slash-команду отдельным JSON-сообщением в Subject.
type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
	Log       *slog.Logger
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	clientID := s.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("astro-svc-%d", time.Now().UnixNano())
	}
	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	_, err = sc.QueueSubscribe(s.Subject, "astro-workers", func(m *stan.Msg) {
		hCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := handler(hCtx, m.Data); err != nil {
			// не подтверждаем, даём сообщению переотправиться
			s.Log.Error("interaction handler", "error", err)
			return
		}
		if err := m.Ack(); err != nil {
			s.Log.Error("ack failed", "error", err)
		}
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(10*time.Second), stan.DeliverAllAvailable())
	return err
}

var _ domain.InteractionSubscriber = (*Subscriber)(nil)
