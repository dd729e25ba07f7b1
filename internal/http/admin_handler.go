package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const (
	defaultOrderListLimit = 50
	maxOrderListLimit     = 500
)

func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	h.ListProducts(w, r)
}

func (h *Handler) AdminGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, _, err := h.catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeCatalogError(w, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	// Image uploads go to blob storage and get a longer budget.
	ctx, cancel := context.WithTimeout(r.Context(), checkoutTimeout)
	defer cancel()

	p, err := h.catalog.Create(ctx, in)
	if err != nil {
		h.writeCatalogError(w, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"product": p})
}

func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkoutTimeout)
	defer cancel()

	p, err := h.catalog.Update(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeCatalogError(w, "update product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.catalog.Delete(ctx, id); err != nil {
		h.writeCatalogError(w, "delete product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": map[string]string{"id": id}})
}

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	limit := defaultOrderListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxOrderListLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	orders, err := h.orders.List(ctx, limit)
	if err != nil {
		h.logger.Printf("list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	o, err := h.orders.GetByID(ctx, chi.URLParam(r, "orderId"))
	if err != nil {
		h.logger.Printf("get order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) writeCatalogError(w http.ResponseWriter, op string, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	default:
		h.logger.Printf("%s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
