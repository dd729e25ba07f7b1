package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var o order.Order
	if err := decodeJSON(w, r, &o); err != nil {
		writeDecodeError(w, err)
		return
	}

	o.ID = strings.TrimSpace(o.ID)
	if o.ID == "" {
		o.ID = checkout.NewOrderID()
	}
	o.CustomerPhone = strings.TrimSpace(o.CustomerPhone)
	o.FullDeliveryAddress = strings.TrimSpace(o.FullDeliveryAddress)
	o.Status = order.StatusNew
	o.CreatedAt = h.now().UTC()

	var verr *order.ValidationError
	if err := o.Validate(); errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.placeOrder(ctx, &o); err != nil {
		if errors.Is(err, order.ErrDuplicate) {
			writeError(w, http.StatusConflict, "order already exists")
			return
		}
		h.logger.Printf("create order %s: %v", o.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

// placeOrder stores o, then announces it on the event bus. A publish failure
// is logged and does not fail the order.
func (h *Handler) placeOrder(ctx context.Context, o *order.Order) error {
	if err := h.orders.Create(ctx, o); err != nil {
		return err
	}

	if h.events != nil {
		meta := events.EnvelopeMetadata{CorrelationID: middleware.GetCorrelationID(ctx)}
		if err := h.events.PublishOrderPlaced(ctx, o, meta); err != nil {
			h.logger.Printf("publish %s for order %s: %v", events.OrderPlacedEventName, o.ID, err)
		}
	}
	return nil
}

// orderSink lets the server-side checkout place orders through the handler.
type orderSink struct {
	h *Handler
}

func (s orderSink) Create(ctx context.Context, o *order.Order) error {
	return s.h.placeOrder(ctx, o)
}
