package payment

import (
	"context"
	"sync/atomic"

	"cashapp-gateway/internal/logger"
	"cashapp-gateway/internal/order"

	"go.uber.org/zap"
)

// Options identify an offline payment method. Everything here is fixed for
// the life of the gateway; admin-editable values live in Config.
type Options struct {
	ID                string
	MethodName        string
	MethodTitle       string
	MethodDescription string
	Icon              string
	// AwaitingNote is attached to the order when it is put on hold.
	AwaitingNote string
	Defaults     Config
}

type Option func(*OfflineGateway)

// WithProcessStatusPolicy overrides the status applied by ProcessPayment.
func WithProcessStatusPolicy(p StatusPolicy) Option {
	return func(g *OfflineGateway) {
		if p != nil {
			g.processStatus = p
		}
	}
}

// WithEmailStatusPolicy overrides the status required for email instructions.
func WithEmailStatusPolicy(p StatusPolicy) Option {
	return func(g *OfflineGateway) {
		if p != nil {
			g.emailStatus = p
		}
	}
}

// OfflineGateway is a manual payment method: orders wait in a pending status
// until someone confirms the funds outside the system.
type OfflineGateway struct {
	opts     Options
	orders   OrderStore
	cart     CartService
	settings SettingsStore

	processStatus StatusPolicy
	emailStatus   StatusPolicy

	cfg atomic.Pointer[Config]
}

func NewOfflineGateway(opts Options, cfg Config, orders OrderStore, cart CartService, settings SettingsStore, options ...Option) *OfflineGateway {
	g := &OfflineGateway{
		opts:          opts,
		orders:        orders,
		cart:          cart,
		settings:      settings,
		processStatus: keepDefault,
		emailStatus:   keepDefault,
	}
	for _, o := range options {
		o(g)
	}
	cfg = ConfigFromSettings(nil, cfg)
	g.cfg.Store(&cfg)
	return g
}

// LoadOfflineGateway builds a gateway from persisted settings. A settings
// store failure returns a *ConfigLoadError and no gateway.
func LoadOfflineGateway(ctx context.Context, opts Options, orders OrderStore, cart CartService, settings SettingsStore, options ...Option) (*OfflineGateway, error) {
	values, err := settings.Load(ctx, opts.ID)
	if err != nil {
		return nil, &ConfigLoadError{GatewayID: opts.ID, Err: err}
	}
	return NewOfflineGateway(opts, ConfigFromSettings(values, opts.Defaults), orders, cart, settings, options...), nil
}

func (g *OfflineGateway) ID() string          { return g.opts.ID }
func (g *OfflineGateway) Icon() string        { return g.opts.Icon }
func (g *OfflineGateway) MethodTitle() string { return g.opts.MethodTitle }

func (g *OfflineGateway) MethodDescription() string { return g.opts.MethodDescription }

func (g *OfflineGateway) Config() Config      { return *g.cfg.Load() }
func (g *OfflineGateway) Title() string       { return g.Config().Title }
func (g *OfflineGateway) Description() string { return g.Config().Description }
func (g *OfflineGateway) Enabled() bool       { return g.Config().Enabled }

// ProcessPayment puts a payable order on hold, or completes a zero-total
// order, then empties the buyer's cart. Errors are returned unmodified and
// the cart is only cleared after the status change succeeded.
func (g *OfflineGateway) ProcessPayment(ctx context.Context, orderID uint) (*Result, error) {
	cfg := g.Config()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("method", "ProcessPayment"),
		zap.String("gateway_id", g.opts.ID),
		zap.Uint("order_id", orderID),
	)

	o, err := g.orders.GetOrder(ctx, orderID)
	if err != nil {
		log.Warn("failed to load order", zap.Error(err))
		return nil, err
	}

	if o.Total > 0 {
		status := g.processStatus(cfg.PendingStatus, o)
		if err := g.orders.UpdateStatus(ctx, o, status, g.opts.AwaitingNote); err != nil {
			log.Error("failed to mark order awaiting payment", zap.String("status", string(status)), zap.Error(err))
			return nil, err
		}
		log.Info("order awaiting manual payment", zap.String("status", string(status)), zap.Float64("total", o.Total))
	} else {
		if err := g.orders.PaymentComplete(ctx, o); err != nil {
			log.Error("failed to complete zero-total order", zap.Error(err))
			return nil, err
		}
		log.Info("zero-total order completed")
	}

	if err := g.cart.ClearActiveCart(ctx); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return nil, err
	}

	return &Result{
		Result:   ResultSuccess,
		Redirect: g.orders.ThankYouURL(o),
	}, nil
}

// ThankYouInstructions renders the instructions for the order-received page.
func (g *OfflineGateway) ThankYouInstructions(o *order.Order) string {
	cfg := g.Config()
	if !cfg.HasInstructions() {
		return ""
	}
	return FormatHTML(InjectVariables(cfg.Instructions, OrderVars(o)))
}

// EmailInstructions renders the instructions placed before the order table
// of customer emails for orders still awaiting this payment method.
func (g *OfflineGateway) EmailInstructions(o *order.Order, sentToAdmin, plainText bool) string {
	cfg := g.Config()
	if !cfg.HasInstructions() || sentToAdmin || o == nil {
		return ""
	}
	if o.PaymentMethod != g.opts.ID {
		return ""
	}
	if !o.HasStatus(g.emailStatus(cfg.EmailStatus, o)) {
		return ""
	}

	text := InjectVariables(cfg.Instructions, OrderVars(o))
	if plainText {
		return FormatPlain(text) + "\n"
	}
	return FormatHTML(text) + "\n"
}

func (g *OfflineGateway) SettingsSchema() []FieldSpec {
	return offlineSchema(g.opts.MethodName, g.opts.Defaults)
}

func (g *OfflineGateway) Settings() map[string]string {
	return g.Config().Settings()
}

// ApplySettings validates and persists admin input, then swaps the live
// config. Calls already in flight keep the config they started with.
func (g *OfflineGateway) ApplySettings(ctx context.Context, values map[string]string) (Config, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("method", "ApplySettings"),
		zap.String("gateway_id", g.opts.ID),
	)

	current := g.Config()
	normalized, err := NormalizeSettings(g.SettingsSchema(), current.Settings(), values)
	if err != nil {
		return current, err
	}

	if err := g.settings.Save(ctx, g.opts.ID, normalized); err != nil {
		log.Error("failed to save settings", zap.Error(err))
		return current, err
	}

	next := ConfigFromSettings(normalized, current)
	g.cfg.Store(&next)
	log.Info("gateway settings updated", zap.Bool("enabled", next.Enabled))
	return next, nil
}
