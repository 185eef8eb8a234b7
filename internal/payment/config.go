package payment

import (
	"strings"

	"cashapp-gateway/internal/order"
)

// Settings keys, also the FieldSpec keys of the settings schema.
const (
	KeyEnabled      = "enabled"
	KeyTitle        = "title"
	KeyDescription  = "description"
	KeyInstructions = "instructions"
)

const (
	yes = "yes"
	no  = "no"
)

type Config struct {
	Enabled      bool
	Title        string
	Description  string
	Instructions string

	// PendingStatus is applied by ProcessPayment to orders with a positive total.
	PendingStatus order.Status
	// EmailStatus is the status an order must be in for email instructions.
	EmailStatus order.Status
}

// ConfigFromSettings overlays stored settings on defaults. Keys absent from
// values keep their default.
func ConfigFromSettings(values map[string]string, defaults Config) Config {
	cfg := defaults
	if v, ok := values[KeyEnabled]; ok {
		cfg.Enabled = v == yes
	}
	if v, ok := values[KeyTitle]; ok {
		cfg.Title = v
	}
	if v, ok := values[KeyDescription]; ok {
		cfg.Description = v
	}
	if v, ok := values[KeyInstructions]; ok {
		cfg.Instructions = v
	}
	if cfg.PendingStatus == "" {
		cfg.PendingStatus = order.StatusOnHold
	}
	if cfg.EmailStatus == "" {
		cfg.EmailStatus = order.StatusOnHold
	}
	return cfg
}

// Settings is the persisted form of c.
func (c Config) Settings() map[string]string {
	enabled := no
	if c.Enabled {
		enabled = yes
	}
	return map[string]string{
		KeyEnabled:      enabled,
		KeyTitle:        c.Title,
		KeyDescription:  c.Description,
		KeyInstructions: c.Instructions,
	}
}

func (c Config) HasInstructions() bool {
	return strings.TrimSpace(c.Instructions) != ""
}
