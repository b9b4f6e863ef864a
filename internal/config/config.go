package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — конфигурация процесса, environment-style как у исходного бота.
type Config struct {
	// Учётные данные коннектора чат-платформы (сам коннектор — внешний
	// процесс, значения только пробрасываются в аудит/диагностику).
	BotToken string `env:"TOKEN_DISCORD"`
	AppID    string `env:"CLIENT_ID"`

	PixKey      string `env:"PIX_KEY" env-default:"SUA_CHAVE_PIX_AQUI"`
	PaymentLink string `env:"MP_LINK" env-default:"SEU_LINK_MERCADOPAGO_AQUI"`

	LogChannelID   string `env:"LOG_CHANNEL_ID"`
	StaffRoleID    string `env:"STAFF_ROLE_ID"`
	CartCategoryID string `env:"CART_CATEGORY_ID"`

	DBFile   string `env:"DB_FILE" env-default:"db.json"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	StanClusterID   string `env:"STAN_CLUSTER_ID" env-default:"astro-cluster"`
	StanClientID    string `env:"STAN_CLIENT_ID"`
	NatsURL         string `env:"NATS_URL" env-default:"nats://localhost:4223"`
	InboundSubject  string `env:"STAN_SUBJECT_IN" env-default:"chat.interactions"`
	OutboundSubject string `env:"STAN_SUBJECT_OUT" env-default:"chat.outbound"`
	StanDurable     string `env:"STAN_DURABLE" env-default:"astro-durable"`
}

func Read() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return &cfg, nil
}
