package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

const (
	CartCookieName = "cart_id"
	cartCookieTTL  = 30 * 24 * 60 * 60
)

type cartView struct {
	Items      []cart.Line `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	Count      int         `json:"count"`
}

func newCartView(s *cart.Store) cartView {
	lines := s.Lines()
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return cartView{
		Items:      lines,
		TotalPrice: cart.Total(lines).Round(2).InexactFloat64(),
		Count:      count,
	}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// cartID returns the cart session of the browser, issuing a new cookie when
// the request has none or a malformed one.
func (h *Handler) cartID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CartCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   cartCookieTTL,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) openCart(ctx context.Context, id string) (*cart.Store, error) {
	return cart.Open(ctx, h.carts.Namespace(id), h.logger)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := h.cartID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	s, err := h.openCart(ctx, id)
	if err != nil {
		h.logger.Printf("open cart %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, newCartView(s))
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var body cartItemRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if strings.TrimSpace(body.ProductID) == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	id := h.cartID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, _, err := h.catalog.Get(ctx, body.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Printf("look up product %s: %v", body.ProductID, err)
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	label := body.Size
	if label == "" && p.Purchasable() {
		label = p.Sizes[0].Size
	}
	size, err := cart.SelectSize(p, label)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mutateCart(ctx, w, id, func(s *cart.Store) error {
		return s.Add(ctx, p, size, body.Quantity)
	})
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var body cartItemRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if body.ProductID == "" || body.Size == "" {
		writeError(w, http.StatusBadRequest, "productId and size are required")
		return
	}

	id := h.cartID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	h.mutateCart(ctx, w, id, func(s *cart.Store) error {
		return s.UpdateQuantity(ctx, body.ProductID, body.Size, body.Quantity)
	})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID, size := q.Get("productId"), q.Get("size")
	if productID == "" || size == "" {
		writeError(w, http.StatusBadRequest, "productId and size are required")
		return
	}

	id := h.cartID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	h.mutateCart(ctx, w, id, func(s *cart.Store) error {
		return s.Remove(ctx, productID, size)
	})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	id := h.cartID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	h.mutateCart(ctx, w, id, func(s *cart.Store) error {
		return s.Clear(ctx)
	})
}

// mutateCart loads the cart, applies fn and writes the resulting cart.
// Requests for the same cart run one at a time so updates are not lost.
func (h *Handler) mutateCart(ctx context.Context, w http.ResponseWriter, id string, fn func(*cart.Store) error) {
	unlock := h.cartLocks.Lock(id)
	defer unlock()

	s, err := h.openCart(ctx, id)
	if err != nil {
		h.logger.Printf("open cart %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if err := fn(s); err != nil {
		h.logger.Printf("update cart %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	writeJSON(w, http.StatusOK, newCartView(s))
}

// Checkout places the order for the browser's cart. Concurrent requests for
// the same cart share one workflow, so only one of them creates an order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := decodeJSON(w, r, &form); err != nil {
		writeDecodeError(w, err)
		return
	}

	id := h.cartID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), checkoutTimeout)
	defer cancel()

	wf, err := h.checkouts.Acquire(id, func() (*checkout.Workflow, error) {
		unlock := h.cartLocks.Lock(id)
		s, err := h.openCart(ctx, id)
		unlock()
		if err != nil {
			return nil, err
		}
		var n notify.Notifier
		if h.notifier != nil && h.notifier.Configured() {
			n = h.notifier
		}
		wf := checkout.NewWorkflow(s, orderSink{h: h}, n, h.logger)
		wf.Settle = func(ctx context.Context, ordered []cart.Line) error {
			return h.settleCart(ctx, id, ordered)
		}
		if h.notifyTimeout > 0 {
			wf.NotifyTimeout = h.notifyTimeout
		}
		return wf, nil
	})
	if err != nil {
		h.logger.Printf("open cart %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	defer h.checkouts.Release(id, wf)

	if err := wf.Open(); err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	o, err := wf.Submit(ctx, form)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"order": o})
}

// settleCart removes an order's lines from the latest persisted cart. Items
// added while the order was being placed stay in the cart.
func (h *Handler) settleCart(ctx context.Context, id string, ordered []cart.Line) error {
	unlock := h.cartLocks.Lock(id)
	defer unlock()

	s, err := h.openCart(ctx, id)
	if err != nil {
		return err
	}
	return s.Settle(ctx, ordered)
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   verr.Error(),
			"missing": verr.Missing,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrSubmitInFlight), errors.Is(err, checkout.ErrAlreadyPlaced):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrOrderFailed):
		writeError(w, http.StatusBadGateway, checkout.ErrOrderFailed.Error())
	default:
		h.logger.Printf("checkout: %v", err)
		writeError(w, http.StatusInternalServerError, "checkout failed")
	}
}
