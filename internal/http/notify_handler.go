package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var n notify.Notification
	if err := decodeJSON(w, r, &n); err != nil {
		writeDecodeError(w, err)
		return
	}

	if h.notifier == nil || !h.notifier.Configured() {
		h.logger.Printf("notification for order %s not sent: no channel configured", n.OrderID)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "warning": "API Key missing"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.notifyBudget())
	defer cancel()

	if err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.Printf("send notification for order %s: %v", n.OrderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to send notification"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) notifyBudget() time.Duration {
	if h.notifyTimeout > 0 {
		return h.notifyTimeout
	}
	return checkoutTimeout
}
