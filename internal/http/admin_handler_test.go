package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	userToken, err := env.codec.Encode(session.User{ID: "u1", Email: "user@example.com", Role: session.RoleUser})
	require.NoError(t, err)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/admin/products"},
		{http.MethodPost, "/admin/products"},
		{http.MethodPut, "/admin/products/p1"},
		{http.MethodDelete, "/admin/products/p1"},
		{http.MethodGet, "/admin/orders"},
	} {
		rr := env.do(t, route.method, route.path, "")
		assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s anonymous", route.method, route.path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())

		rr = env.do(t, route.method, route.path, "", &http.Cookie{Name: session.CookieName, Value: userToken})
		assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s as user", route.method, route.path)
	}
}

func TestAdminCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	var got catalog.Input
	env.catalog.createFunc = func(ctx context.Context, in catalog.Input) (catalog.Product, error) {
		got = in
		if in.Name == "" {
			return catalog.Product{}, &catalog.ValidationError{Problems: []string{"name is required"}}
		}
		return catalog.Product{ID: "new-id", Name: in.Name, Category: catalog.DefaultCategory, Image: catalog.DefaultImage, Sizes: in.Sizes}, nil
	}

	rr := env.do(t, http.MethodPost, "/admin/products",
		`{"name":"Amber","sizes":[{"size":"50ml","price":40}],"imageData":"data:image/png;base64,aGk="}`, env.adminCookie(t))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"product":{"id":"new-id","name":"Amber","category":"unisex","image":"/placeholder.jpg","sizes":[{"size":"50ml","price":40}]}}`, rr.Body.String())
	assert.Equal(t, "data:image/png;base64,aGk=", got.ImageData)

	rr = env.do(t, http.MethodPost, "/admin/products", `{"sizes":[]}`, env.adminCookie(t))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"name is required"}`, rr.Body.String())
}

func TestAdminProductByID(t *testing.T) {
	env := newTestEnv(t)
	env.stockOud()
	env.catalog.updateFunc = func(ctx context.Context, id string, in catalog.Input) (catalog.Product, error) {
		if id != oud.ID {
			return catalog.Product{}, catalog.ErrNotFound
		}
		p := oud
		p.Name = in.Name
		return p, nil
	}
	var deleted string
	env.catalog.deleteFunc = func(ctx context.Context, id string) error {
		deleted = id
		return nil
	}
	admin := env.adminCookie(t)

	rr := env.do(t, http.MethodGet, "/admin/products/p1", "", admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Oud Royale"`)

	rr = env.do(t, http.MethodGet, "/admin/products/nope", "", admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodPut, "/admin/products/p1", `{"name":"Oud Intense","sizes":[{"size":"50ml","price":50}]}`, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Oud Intense"`)

	rr = env.do(t, http.MethodPut, "/admin/products/nope", `{"name":"x","sizes":[{"size":"1","price":1}]}`, admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodDelete, "/admin/products/p1", "", admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted":{"id":"p1"}}`, rr.Body.String())
	assert.Equal(t, "p1", deleted)
}

func TestAdminOrders(t *testing.T) {
	env := newTestEnv(t)
	var gotLimit int
	env.orders.listFunc = func(ctx context.Context, limit int) ([]order.Order, error) {
		gotLimit = limit
		return []order.Order{{ID: "ORD-1", Status: order.StatusNew}}, nil
	}
	env.orders.getByIDFunc = func(ctx context.Context, orderID string) (*order.Order, error) {
		if orderID == "ORD-1" {
			return &order.Order{ID: "ORD-1", Status: order.StatusNew}, nil
		}
		return nil, nil
	}
	admin := env.adminCookie(t)

	rr := env.do(t, http.MethodGet, "/admin/orders", "", admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, defaultOrderListLimit, gotLimit)
	assert.Contains(t, rr.Body.String(), `"orderId":"ORD-1"`)

	rr = env.do(t, http.MethodGet, "/admin/orders?limit=10000", "", admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, maxOrderListLimit, gotLimit)

	rr = env.do(t, http.MethodGet, "/admin/orders?limit=zero", "", admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/admin/orders/ORD-1", "", admin)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/admin/orders/ORD-2", "", admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
