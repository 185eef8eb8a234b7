// Package checkout exposes payment methods, payment processing and the
// order-received page over HTTP.
package checkout

import (
	"context"
	"net/http"

	"cashapp-gateway/internal/metrics"
	"cashapp-gateway/internal/order"
	"cashapp-gateway/internal/payment"
)

// Counter names reported by the metrics set.
const (
	MetricPaymentsProcessed = "checkout_payments_processed"
	MetricPaymentsFailed    = "checkout_payments_failed"
	MetricPaymentsRejected  = "checkout_payments_rejected"
	MetricPaymentDuration   = "checkout_payment_duration_ms_total"
	MetricEmailsFailed      = "checkout_emails_failed"
	MetricThankYouViews     = "checkout_thankyou_views"
	MetricSettingsUpdated   = "admin_gateway_settings_updated"
)

type OrderService interface {
	GetOrder(ctx context.Context, orderID uint) (*order.Order, error)
	SetPaymentMethod(ctx context.Context, o *order.Order, method string) error
}

type Notifier interface {
	SendCustomerOrder(ctx context.Context, o *order.Order) error
	SendAdminNewOrder(ctx context.Context, o *order.Order) error
}

type Handler struct {
	gateways *payment.Registry
	orders   OrderService
	notifier Notifier
	metrics  *metrics.Set
	shopName string
}

func NewHandler(gateways *payment.Registry, orders OrderService, notifier Notifier, m *metrics.Set, shopName string) *Handler {
	if m == nil {
		m = metrics.NewSet()
	}
	return &Handler{
		gateways: gateways,
		orders:   orders,
		notifier: notifier,
		metrics:  m,
		shopName: shopName,
	}
}

// Register mounts the public checkout routes. adminOnly wraps the admin routes.
func (h *Handler) Register(mux *http.ServeMux, adminOnly func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /checkout/payment-methods", h.PaymentMethods)
	mux.HandleFunc("POST /checkout/orders/{id}/payment", h.ProcessPayment)
	mux.HandleFunc("GET /checkout/order-received/{id}", h.OrderReceived)

	mux.Handle("GET /admin/payment-gateways/{id}/settings", adminOnly(http.HandlerFunc(h.GetSettings)))
	mux.Handle("PUT /admin/payment-gateways/{id}/settings", adminOnly(http.HandlerFunc(h.UpdateSettings)))
}
