package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/localstore"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const (
	requestTimeout  = 3 * time.Second
	checkoutTimeout = 10 * time.Second
	maxBodyBytes    = 8 << 20
)

// CatalogService is what the public catalog and the admin editor need.
type CatalogService interface {
	catalog.Provider
	Create(ctx context.Context, in catalog.Input) (catalog.Product, error)
	Update(ctx context.Context, id string, in catalog.Input) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
}

type OrderEventsPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order, meta events.EnvelopeMetadata) error
}

// OwnerNotifier reports whether any channel is set up so POST /notify can warn
// instead of failing.
type OwnerNotifier interface {
	notify.Notifier
	Configured() bool
}

// CartStorage hands out the key-value view for one cart session.
type CartStorage interface {
	Namespace(id string) localstore.Storage
}

type Deps struct {
	Logger *log.Logger

	Catalog   CatalogService
	Orders    order.Repository
	Events    OrderEventsPublisher
	Notifier  OwnerNotifier
	Sessions  *session.Codec
	Roles     session.RoleDirectory
	Carts     CartStorage
	Checkouts *checkout.Registry

	NotifyTimeout    time.Duration
	SecureCookies    bool
	CORSAllowOrigins []string
}

type Handler struct {
	logger *log.Logger

	catalog   CatalogService
	orders    order.Repository
	events    OrderEventsPublisher
	notifier  OwnerNotifier
	sessions  *session.Codec
	carts     CartStorage
	checkouts *checkout.Registry
	cartLocks *keyedMutex

	notifyTimeout time.Duration
	secureCookies bool
	now           func() time.Time
}

func NewHandler(d Deps) *Handler {
	checkouts := d.Checkouts
	if checkouts == nil {
		checkouts = checkout.NewRegistry()
	}
	return &Handler{
		logger:        d.Logger,
		catalog:       d.Catalog,
		orders:        d.Orders,
		events:        d.Events,
		notifier:      d.Notifier,
		sessions:      d.Sessions,
		carts:         d.Carts,
		checkouts:     checkouts,
		cartLocks:     newKeyedMutex(),
		notifyTimeout: d.NotifyTimeout,
		secureCookies: d.SecureCookies,
		now:           time.Now,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}

var errBodyTooLarge = errors.New("request body too large")

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "invalid json")
}
