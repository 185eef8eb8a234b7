// Package cashapp configures the offline gateway for manual CashApp transfers.
package cashapp

import (
	"context"

	"cashapp-gateway/internal/logger"
	"cashapp-gateway/internal/payment"

	"go.uber.org/zap"
)

const (
	ID           = "cashapp"
	MethodName   = "CashApp"
	AwaitingNote = "Awaiting CashApp payment"

	methodTitle       = "CashApp Payments"
	methodDescription = "Custom payment gateway to facilitate CashApp transactions."
)

// Deps are the collaborators the CashApp gateway drives.
type Deps struct {
	Orders   payment.OrderStore
	Cart     payment.CartService
	Settings payment.SettingsStore
	// IconURL is shown next to the method at checkout. Empty means no icon.
	IconURL string
}

// Defaults is the configuration of a fresh install.
func Defaults() payment.Config {
	return payment.ConfigFromSettings(nil, payment.Config{
		Enabled: true,
		Title:   MethodName,
	})
}

func Options(iconURL string) payment.Options {
	return payment.Options{
		ID:                ID,
		MethodName:        MethodName,
		MethodTitle:       methodTitle,
		MethodDescription: methodDescription,
		Icon:              iconURL,
		AwaitingNote:      AwaitingNote,
		Defaults:          Defaults(),
	}
}

// New loads the stored settings and returns the gateway. A settings store
// failure is returned as a *payment.ConfigLoadError.
func New(ctx context.Context, deps Deps, options ...payment.Option) (*payment.OfflineGateway, error) {
	gw, err := payment.LoadOfflineGateway(ctx, Options(deps.IconURL), deps.Orders, deps.Cart, deps.Settings, options...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load cashapp gateway settings",
			zap.String("layer", "gateway"),
			zap.String("gateway_id", ID),
			zap.Error(err),
		)
		return nil, err
	}
	return gw, nil
}

// NewDisabled returns a gateway with default settings but switched off. Used
// when the stored settings cannot be read so the method is still listed to
// admins without being offered at checkout.
func NewDisabled(deps Deps, options ...payment.Option) *payment.OfflineGateway {
	cfg := Defaults()
	cfg.Enabled = false
	return payment.NewOfflineGateway(Options(deps.IconURL), cfg, deps.Orders, deps.Cart, deps.Settings, options...)
}
