package checkout

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"cashapp-gateway/internal/logger"
	"cashapp-gateway/internal/order"
	"cashapp-gateway/internal/payment"
	"cashapp-gateway/internal/utils"

	"go.uber.org/zap"
)

var pageFuncs = template.FuncMap{
	// trust marks gateway output as safe; gateways escape instruction text.
	"trust": func(s string) template.HTML {
		return template.HTML(s)
	},
	"money": func(amount float64, currency string) string {
		if currency == "" {
			return fmt.Sprintf("%.2f", amount)
		}
		return fmt.Sprintf("%.2f %s", amount, currency)
	},
}

var orderReceivedPage = template.Must(template.New("order-received").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Order received | {{.ShopName}}</title>
</head>
<body>
<main class="order-received">
<h1>Order received</h1>
<p>Thank you. Your order has been received.</p>
<ul class="order-overview">
<li>Order number: <strong>{{.Order.ID}}</strong></li>
<li>Status: <strong>{{.Order.Status.Label}}</strong></li>
<li>Total: <strong>{{money .Order.Total .Order.Currency}}</strong></li>
{{- if .MethodTitle}}
<li>Payment method: <strong>{{.MethodTitle}}</strong></li>
{{- end}}
</ul>
{{- if .Instructions}}
<section class="payment-instructions">
{{trust .Instructions}}</section>
{{- end}}
<table class="order-details">
<thead><tr><th>Product</th><th>Total</th></tr></thead>
<tbody>
{{- range .Order.Items}}
<tr><td>{{.Name}} &times; {{.Quantity}}</td><td>{{money .Subtotal $.Order.Currency}}</td></tr>
{{- end}}
</tbody>
</table>
</main>
</body>
</html>
`))

type orderReceivedData struct {
	ShopName     string
	Order        *order.Order
	MethodTitle  string
	Instructions string
}

// OrderReceived renders the thank-you page. The order key from the query must
// match, otherwise the order is reported as not found.
func (h *Handler) OrderReceived(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "handler"),
		zap.String("method", "OrderReceived"),
	)

	orderID, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	o, err := h.orders.GetOrder(ctx, orderID)
	if errors.Is(err, order.ErrOrderNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error("failed to load order", zap.Uint("order_id", orderID), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !keyMatches(o.OrderKey, r.URL.Query().Get("key")) {
		log.Warn("order key mismatch", zap.Uint("order_id", orderID))
		http.NotFound(w, r)
		return
	}

	data := orderReceivedData{ShopName: h.shopName, Order: o}
	if gw, ok := h.gateways.Get(o.PaymentMethod); ok {
		data.MethodTitle = gw.Title()
		if renderer, ok := gw.(payment.InstructionRenderer); ok {
			data.Instructions = renderer.ThankYouInstructions(o)
		}
	}

	var buf bytes.Buffer
	if err := orderReceivedPage.Execute(&buf, data); err != nil {
		log.Error("failed to render order received page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.metrics.Counter(MetricThankYouViews).Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
