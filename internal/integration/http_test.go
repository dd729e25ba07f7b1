//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/localstore"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/testutil"
)

func TestCartCheckout_PersistsOrder(t *testing.T) {
	pg := testutil.StartPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	svc := catalog.NewService(catalog.NewPostgresRepository(pool), nil, discardLogger())
	oud, err := svc.Create(ctx, catalog.Input{Name: "Oud Royale", Category: "men", Sizes: []catalog.Size{{Size: "50ml", Price: 45}}})
	require.NoError(t, err)

	orders := order.NewRepository(pg.DB)
	checkouts := checkout.NewRegistry()
	t.Cleanup(checkouts.Wait)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           discardLogger(),
		Catalog:          svc,
		Orders:           orders,
		Notifier:         notify.NewMulti(),
		Sessions:         session.NewCodec("integration-secret"),
		Carts:            localstore.NewPostgres(pg.DB),
		Checkouts:        checkouts,
		CORSAllowOrigins: []string{"*"},
	})

	do := func(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	rr := do(http.MethodPost, "/api/cart/items", `{"productId":"`+oud.ID+`","size":"50ml","quantity":2}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var cartCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == httpapi.CartCookieName {
			cartCookie = c
		}
	}
	require.NotNil(t, cartCookie)

	rr = do(http.MethodPost, "/api/cart/checkout",
		`{"city":"Beirut","street":"Hamra St","building":"Plaza","floor":"3rd","phone":"+96170000000","details":"ring twice"}`, cartCookie)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var body struct {
		Order order.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

	stored, err := orders.GetByID(ctx, body.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Beirut, Hamra St, Plaza, 3rd, ring twice", stored.FullDeliveryAddress)
	assert.Equal(t, 90.0, stored.TotalPrice)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Oud Royale", stored.Items[0].Name)

	_, ok, err := localstore.NewPostgres(pg.DB).Namespace(cartCookie.Value).GetItem(ctx, localstore.KeyCart)
	require.NoError(t, err)
	assert.False(t, ok, "cart key is removed after checkout")
}
