package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"cashapp-gateway/internal/logger"
	"cashapp-gateway/internal/payment"
	"cashapp-gateway/internal/utils"

	"go.uber.org/zap"
)

type gatewaySettings struct {
	ID                string              `json:"id"`
	MethodTitle       string              `json:"method_title,omitempty"`
	MethodDescription string              `json:"method_description,omitempty"`
	Fields            []payment.FieldSpec `json:"fields"`
	Values            map[string]string   `json:"values"`
}

type describedGateway interface {
	MethodTitle() string
	MethodDescription() string
}

func (h *Handler) configurable(w http.ResponseWriter, r *http.Request) (payment.Gateway, payment.Configurable, bool) {
	gw, ok := h.gateways.Get(r.PathValue("id"))
	if !ok {
		utils.WriteJSONError(w, "payment gateway not found", http.StatusNotFound)
		return nil, nil, false
	}
	c, ok := gw.(payment.Configurable)
	if !ok {
		utils.WriteJSONError(w, "payment gateway has no settings", http.StatusNotFound)
		return nil, nil, false
	}
	return gw, c, true
}

func settingsResponse(gw payment.Gateway, c payment.Configurable) gatewaySettings {
	out := gatewaySettings{
		ID:     gw.ID(),
		Fields: c.SettingsSchema(),
		Values: c.Settings(),
	}
	if d, ok := gw.(describedGateway); ok {
		out.MethodTitle = d.MethodTitle()
		out.MethodDescription = d.MethodDescription()
	}
	return out
}

// GetSettings returns the settings schema and current values of a gateway.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	gw, c, ok := h.configurable(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, settingsResponse(gw, c))
}

// UpdateSettings applies a partial settings update. Keys left out keep
// their current value.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gw, c, ok := h.configurable(w, r)
	if !ok {
		return
	}

	log := logger.FromCtx(logger.WithGateway(ctx, gw.ID())).With(
		zap.String("layer", "handler"),
		zap.String("method", "UpdateSettings"),
	)
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		log = log.With(zap.Uint("user_id", userID))
	}

	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := c.ApplySettings(ctx, values); err != nil {
		if errors.Is(err, payment.ErrInvalidSetting) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error("failed to update gateway settings", zap.Error(err))
		utils.WriteJSONError(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	h.metrics.Counter(MetricSettingsUpdated).Inc()
	log.Info("gateway settings updated by admin")
	utils.WriteJSON(w, http.StatusOK, settingsResponse(gw, c))
}
