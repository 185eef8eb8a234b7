package payment

import (
	"context"

	"cashapp-gateway/internal/order"
)

// OrderStore is the order persistence a gateway drives. order.Service implements it.
type OrderStore interface {
	GetOrder(ctx context.Context, orderID uint) (*order.Order, error)
	UpdateStatus(ctx context.Context, o *order.Order, status order.Status, note string) error
	PaymentComplete(ctx context.Context, o *order.Order) error
	ThankYouURL(o *order.Order) string
}

type CartService interface {
	ClearActiveCart(ctx context.Context) error
}

type SettingsStore interface {
	Load(ctx context.Context, gatewayID string) (map[string]string, error)
	Save(ctx context.Context, gatewayID string, values map[string]string) error
}

// StatusPolicy may override a default status for a given order.
type StatusPolicy func(defaultStatus order.Status, o *order.Order) order.Status

func keepDefault(defaultStatus order.Status, _ *order.Order) order.Status {
	return defaultStatus
}

// Gateway is a payment method offered at checkout.
type Gateway interface {
	ID() string
	Title() string
	Description() string
	Icon() string
	Enabled() bool
	ProcessPayment(ctx context.Context, orderID uint) (*Result, error)
}

// InstructionRenderer is implemented by gateways that show payment
// instructions after checkout.
type InstructionRenderer interface {
	ThankYouInstructions(o *order.Order) string
	EmailInstructions(o *order.Order, sentToAdmin, plainText bool) string
}

// Configurable is implemented by gateways with admin-editable settings.
type Configurable interface {
	SettingsSchema() []FieldSpec
	Settings() map[string]string
	ApplySettings(ctx context.Context, values map[string]string) (Config, error)
}

const ResultSuccess = "success"

type Result struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect"`
}
