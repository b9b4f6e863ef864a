package dispatch

import (
	"fmt"
	"strings"
)

// InteractionEvent — входящий конверт события взаимодействия от коннектора
// чат-платформы.
type InteractionEvent struct {
	EventID       string            `json:"event_id" validate:"required"`
	InteractionID string            `json:"interaction_id" validate:"required"`
	Kind          string            `json:"kind" validate:"required,oneof=command button modal"`
	Command       string            `json:"command,omitempty"`
	CustomID      string            `json:"custom_id,omitempty"`
	Values        map[string]string `json:"values,omitempty"`
	UserID        string            `json:"user_id" validate:"required"`
	Username      string            `json:"username,omitempty"`
	IsAdmin       bool              `json:"is_admin,omitempty"`
	RoleIDs       []string          `json:"role_ids,omitempty"`
}

const (
	KindCommand = "command"
	KindButton  = "button"
	KindModal   = "modal"
)

// Command — команда, декодированная из строкового идентификатора действия.
// Разбор выполняется один раз на границе; дальше диспетчер матчится по
// типам, а не по строкам.
type Command interface{ isCommand() }

type (
	// OpenPanel — slash-команда /astro: сброс корзины и главная панель.
	OpenPanel struct{}
	// Back — возврат на главную панель.
	Back      struct{}
	Help      struct{}
	Terms     struct{}
	AdminHint struct{}
	Shop      struct{}
	ShowCart  struct{}
	// AddItem — кнопка товара в витрине.
	AddItem struct{ ProductID string }
	// OpenCouponModal / OpenQtyModal / OpenProofModal — показ форм.
	OpenCouponModal struct{}
	OpenQtyModal    struct{}
	OpenProofModal  struct{ OrderID string }
	// ApplyCoupon / EditQuantities / SubmitProof — сабмиты форм.
	ApplyCoupon    struct{ Code string }
	EditQuantities struct{ Raw string }
	SubmitProof    struct {
		OrderID string
		Text    string
	}
	ClearCart       struct{}
	Checkout        struct{}
	OpenCartChannel struct{}
	Approve         struct{ OrderID string }
	Reject          struct{ OrderID string }
	Deliver         struct{ OrderID string }
	CloseChannel    struct{ OrderID string }
)

func (OpenPanel) isCommand()       {}
func (Back) isCommand()            {}
func (Help) isCommand()            {}
func (Terms) isCommand()           {}
func (AdminHint) isCommand()       {}
func (Shop) isCommand()            {}
func (ShowCart) isCommand()        {}
func (AddItem) isCommand()         {}
func (OpenCouponModal) isCommand() {}
func (OpenQtyModal) isCommand()    {}
func (OpenProofModal) isCommand()  {}
func (ApplyCoupon) isCommand()     {}
func (EditQuantities) isCommand()  {}
func (SubmitProof) isCommand()     {}
func (ClearCart) isCommand()       {}
func (Checkout) isCommand()        {}
func (OpenCartChannel) isCommand() {}
func (Approve) isCommand()         {}
func (Reject) isCommand()          {}
func (Deliver) isCommand()         {}
func (CloseChannel) isCommand()    {}

// ErrUnknownAction — идентификатор действия не распознан.
var ErrUnknownAction = fmt.Errorf("unknown action")

// ParseCommand декодирует событие в типизированную команду.
func ParseCommand(ev *InteractionEvent) (Command, error) {
	switch ev.Kind {
	case KindCommand:
		if ev.Command == "astro" {
			return OpenPanel{}, nil
		}
		return nil, fmt.Errorf("%w: command %q", ErrUnknownAction, ev.Command)

	case KindButton:
		return parseButton(ev.CustomID)

	case KindModal:
		return parseModal(ev.CustomID, ev.Values)
	}
	return nil, fmt.Errorf("%w: kind %q", ErrUnknownAction, ev.Kind)
}

func parseButton(customID string) (Command, error) {
	switch customID {
	case "astro:back":
		return Back{}, nil
	case "astro:help":
		return Help{}, nil
	case "astro:tos":
		return Terms{}, nil
	case "astro:admin":
		return AdminHint{}, nil
	case "astro:shop":
		return Shop{}, nil
	case "astro:cart":
		return ShowCart{}, nil
	case "astro:coupon":
		return OpenCouponModal{}, nil
	case "astro:qty":
		return OpenQtyModal{}, nil
	case "astro:clear":
		return ClearCart{}, nil
	case "astro:checkout":
		return Checkout{}, nil
	case "astro:open_cart_channel":
		return OpenCartChannel{}, nil
	}

	parts := strings.Split(customID, ":")
	if len(parts) == 3 && parts[0] == "astro" && parts[2] != "" {
		arg := parts[2]
		switch parts[1] {
		case "add":
			return AddItem{ProductID: arg}, nil
		case "proof":
			return OpenProofModal{OrderID: arg}, nil
		case "approve":
			return Approve{OrderID: arg}, nil
		case "reject":
			return Reject{OrderID: arg}, nil
		case "deliver":
			return Deliver{OrderID: arg}, nil
		case "close":
			return CloseChannel{OrderID: arg}, nil
		}
	}
	return nil, fmt.Errorf("%w: button %q", ErrUnknownAction, customID)
}

func parseModal(customID string, values map[string]string) (Command, error) {
	switch customID {
	case "astro:modal:coupon":
		return ApplyCoupon{Code: values["coupon"]}, nil
	case "astro:modal:qty":
		return EditQuantities{Raw: values["qty"]}, nil
	}
	if oid, ok := strings.CutPrefix(customID, "astro:modal:proof:"); ok && oid != "" {
		return SubmitProof{OrderID: oid, Text: strings.TrimSpace(values["proof"])}, nil
	}
	return nil, fmt.Errorf("%w: modal %q", ErrUnknownAction, customID)
}
