package domain

import "context"

// CatalogStore — порт каталога: товары, купоны и склад кодов из единого
// персистентного документа.
type CatalogStore interface {
	Products() []Product
	Product(id string) (Product, bool)
	// CouponPercent возвращает процент скидки по коду купона (код уже в
	// верхнем регистре).
	CouponPercent(code string) (int, bool)
	// PopCode атомарно снимает первый код со склада; false — склад пуст.
	PopCode(key string) (string, bool)
	// Persist переписывает документ целиком после изменений склада.
	Persist() error
}

// CartRegistry — порт реестра корзин: одна корзина на пользователя,
// создаётся лениво при первом обращении.
type CartRegistry interface {
	GetOrCreate(userID string) *Cart
}

// OrderRegistry — порт реестра заказов (живут только в памяти процесса).
// Чтения отдают копию, мутации идут через Update под локом реестра:
// HTTP-читатель и обработчик взаимодействий работают в разных горутинах.
type OrderRegistry interface {
	// NextID выдаёт следующий последовательный номер заказа ("0001", ...).
	NextID() string
	Put(o Order)
	// Get возвращает копию заказа; общий указатель наружу не отдаётся.
	Get(id string) (Order, bool)
	// Update исполняет fn над заказом под локом реестра; отсутствующий
	// заказ — ErrOrderNotFound, ошибка fn возвращается как есть.
	Update(id string, fn func(*Order) error) error
	All() []Order
}

// InteractionSubscriber — порт подписчика на входящие события взаимодействий.
type InteractionSubscriber interface {
	// Subscribe регистрирует обработчик; ack/повторные доставки реализует адаптер.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}

// Button — кнопка интерактивного сообщения чат-платформы.
type Button struct {
	CustomID string `json:"custom_id"`
	Label    string `json:"label"`
	Style    string `json:"style"`
	Disabled bool   `json:"disabled,omitempty"`
}

// ModalInput — текстовое поле модальной формы.
type ModalInput struct {
	CustomID  string `json:"custom_id"`
	Label     string `json:"label"`
	Value     string `json:"value,omitempty"`
	Paragraph bool   `json:"paragraph,omitempty"`
	Required  bool   `json:"required,omitempty"`
}

// Modal — модальная форма чат-платформы.
type Modal struct {
	CustomID string       `json:"custom_id"`
	Title    string       `json:"title"`
	Inputs   []ModalInput `json:"inputs"`
}

// Message — исходящее сообщение: текст плюс ряды кнопок.
type Message struct {
	Content   string     `json:"content"`
	Rows      [][]Button `json:"rows,omitempty"`
	Ephemeral bool       `json:"ephemeral,omitempty"`
}

// ChatGateway — порт исходящих вызовов чат-платформы. Платформа — внешний
// коллаборатор; вызовы без ретраев, ошибка возвращается вызывающему.
type ChatGateway interface {
	// Reply отвечает на взаимодействие новым сообщением.
	Reply(ctx context.Context, interactionID string, msg Message) error
	// Update заменяет исходное сообщение взаимодействия.
	Update(ctx context.Context, interactionID string, msg Message) error
	ShowModal(ctx context.Context, interactionID string, m Modal) error
	// CreateCartChannel создаёт приватный канал покупателя и возвращает его
	// идентификатор; видимость — покупатель и staff-группа.
	CreateCartChannel(ctx context.Context, userID, username string) (string, error)
	DeleteChannel(ctx context.Context, channelID string) error
	SendChannelMessage(ctx context.Context, channelID string, msg Message) error
	SendDirectMessage(ctx context.Context, userID, content string) error
}

// Общие доменные ошибки
var (
	ErrProductNotFound = notFoundError("product not found")
	ErrOrderNotFound   = notFoundError("order not found")
	ErrInvalidCoupon   = validationError("invalid coupon")
	ErrEmptyCart       = validationError("empty cart")
	ErrUnauthorized    = authError("unauthorized")
	// ErrOrderFinalized — заказ в терминальном статусе, переходы запрещены.
	ErrOrderFinalized = stateError("order finalized")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }

type authError string

func (e authError) Error() string { return string(e) }

type stateError string

func (e stateError) Error() string { return string(e) }
