package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

func NewRouter(d Deps) http.Handler {
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.CORS(d.CORSAllowOrigins))
	r.Use(middleware.CorrelationID)
	r.Use(session.Middleware(d.Sessions))

	r.Get("/health", h.Health)

	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)

	r.Post("/orders", h.CreateOrder)
	r.Post("/notify", h.Notify)

	r.Get("/session", h.GetSession)
	r.Post("/session/logout", h.Logout)

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddCartItem)
		r.Patch("/items", h.UpdateCartItem)
		r.Delete("/items", h.RemoveCartItem)
		r.Post("/checkout", h.Checkout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(session.RequireAdmin(d.Roles, d.Logger))

		r.Get("/products", h.AdminListProducts)
		r.Post("/products", h.AdminCreateProduct)
		r.Get("/products/{id}", h.AdminGetProduct)
		r.Put("/products/{id}", h.AdminUpdateProduct)
		r.Delete("/products/{id}", h.AdminDeleteProduct)

		r.Get("/orders", h.AdminListOrders)
		r.Get("/orders/{orderId}", h.AdminGetOrder)
	})

	return r
}
