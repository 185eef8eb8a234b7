package checkout

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"cashapp-gateway/internal/logger"
	"cashapp-gateway/internal/metrics"
	"cashapp-gateway/internal/order"
	"cashapp-gateway/internal/utils"

	"go.uber.org/zap"
)

type paymentMethod struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type processPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	OrderKey      string `json:"order_key"`
}

type failureResponse struct {
	Result   string `json:"result"`
	Messages string `json:"messages"`
}

const resultFailure = "failure"

func writeFailure(w http.ResponseWriter, code int, message string) {
	utils.WriteJSON(w, code, failureResponse{Result: resultFailure, Messages: message})
}

// PaymentMethods lists the enabled gateways.
func (h *Handler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	available := h.gateways.Available()
	out := make([]paymentMethod, 0, len(available))
	for _, g := range available {
		out = append(out, paymentMethod{
			ID:          g.ID(),
			Title:       g.Title(),
			Description: g.Description(),
			Icon:        g.Icon(),
		})
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// ProcessPayment runs the chosen gateway for an order and, on success,
// sends the order emails.
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "handler"),
		zap.String("method", "ProcessPayment"),
	)

	orderID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid order id.")
		return
	}

	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	gw, ok := h.gateways.Get(req.PaymentMethod)
	if !ok || !gw.Enabled() {
		log.Warn("invalid payment method requested", zap.String("payment_method", req.PaymentMethod))
		writeFailure(w, http.StatusBadRequest, "Invalid payment method.")
		return
	}

	ctx = logger.WithGateway(ctx, gw.ID())
	log = logger.FromCtx(ctx).With(
		zap.String("layer", "handler"),
		zap.String("method", "ProcessPayment"),
		zap.Uint("order_id", orderID),
	)

	o, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		h.paymentFailed(w, log, err)
		return
	}
	if !keyMatches(o.OrderKey, req.OrderKey) {
		log.Warn("order key mismatch")
		writeFailure(w, http.StatusNotFound, "Order not found.")
		return
	}

	if !o.NeedsPayment() {
		h.metrics.Counter(MetricPaymentsRejected).Inc()
		log.Warn("order does not need payment", zap.String("status", string(o.Status)))
		writeFailure(w, http.StatusConflict, "This order does not need payment.")
		return
	}

	if err := h.orders.SetPaymentMethod(ctx, o, gw.ID()); err != nil {
		h.paymentFailed(w, log, err)
		return
	}

	timer := metrics.StartTimer()
	res, err := gw.ProcessPayment(ctx, orderID)
	elapsed := timer.Duration()
	h.metrics.Counter(MetricPaymentDuration).Add(uint64(elapsed.Milliseconds()))
	if err != nil {
		h.paymentFailed(w, log.With(zap.Duration("duration", elapsed)), err)
		return
	}

	h.metrics.Counter(MetricPaymentsProcessed).Inc()
	log.Info("payment processed", zap.Duration("duration", elapsed))

	h.sendOrderEmails(ctx, log, orderID)
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) paymentFailed(w http.ResponseWriter, log *zap.Logger, err error) {
	h.metrics.Counter(MetricPaymentsFailed).Inc()

	var transitionErr *order.StatusTransitionError
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		log.Warn("order not found")
		writeFailure(w, http.StatusNotFound, "Order not found.")
	case errors.As(err, &transitionErr):
		log.Warn("order status rejected", zap.Error(err))
		writeFailure(w, http.StatusUnprocessableEntity, "The order could not be updated.")
	default:
		log.Error("payment processing failed", zap.Error(err))
		writeFailure(w, http.StatusInternalServerError, "Payment processing failed. Please try again.")
	}
}

// sendOrderEmails reloads the order so the emails see its new status.
// Failures are logged; the payment already succeeded.
func (h *Handler) sendOrderEmails(ctx context.Context, log *zap.Logger, orderID uint) {
	if h.notifier == nil {
		return
	}

	o, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		h.metrics.Counter(MetricEmailsFailed).Inc()
		log.Error("failed to reload order for emails", zap.Error(err))
		return
	}

	if err := h.notifier.SendCustomerOrder(ctx, o); err != nil {
		h.metrics.Counter(MetricEmailsFailed).Inc()
		log.Error("failed to send customer order email", zap.Error(err))
	}
	if err := h.notifier.SendAdminNewOrder(ctx, o); err != nil {
		h.metrics.Counter(MetricEmailsFailed).Inc()
		log.Error("failed to send admin new order email", zap.Error(err))
	}
}

func keyMatches(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
