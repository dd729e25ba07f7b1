package httpapi

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/localstore"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type fakeCatalog struct {
	listFunc   func(ctx context.Context, category string) ([]catalog.Product, error)
	getFunc    func(ctx context.Context, id string) (catalog.Product, []catalog.Product, error)
	createFunc func(ctx context.Context, in catalog.Input) (catalog.Product, error)
	updateFunc func(ctx context.Context, id string, in catalog.Input) (catalog.Product, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (f *fakeCatalog) List(ctx context.Context, category string) ([]catalog.Product, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, category)
	}
	return nil, nil
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (catalog.Product, []catalog.Product, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return catalog.Product{}, nil, catalog.ErrNotFound
}

func (f *fakeCatalog) Create(ctx context.Context, in catalog.Input) (catalog.Product, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, in)
	}
	return catalog.Product{}, nil
}

func (f *fakeCatalog) Update(ctx context.Context, id string, in catalog.Input) (catalog.Product, error) {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, id, in)
	}
	return catalog.Product{}, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id string) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

type fakeOrders struct {
	mu      sync.Mutex
	created []*order.Order

	createFunc  func(ctx context.Context, o *order.Order) error
	getByIDFunc func(ctx context.Context, orderID string) (*order.Order, error)
	listFunc    func(ctx context.Context, limit int) ([]order.Order, error)
}

func (f *fakeOrders) Create(ctx context.Context, o *order.Order) error {
	if f.createFunc != nil {
		if err := f.createFunc(ctx, o); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.created = append(f.created, o)
	f.mu.Unlock()
	return nil
}

func (f *fakeOrders) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, orderID)
	}
	return nil, nil
}

func (f *fakeOrders) List(ctx context.Context, limit int) ([]order.Order, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, limit)
	}
	return nil, nil
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type publishedEvent struct {
	orderID string
	meta    events.EnvelopeMetadata
}

type fakePublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, o *order.Order, meta events.EnvelopeMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedEvent{orderID: o.ID, meta: meta})
	return f.err
}

type fakeNotifier struct {
	configured bool
	err        error

	mu   sync.Mutex
	sent []notify.Notification
}

func (f *fakeNotifier) Configured() bool { return f.configured }

func (f *fakeNotifier) Notify(ctx context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type memoryCarts struct {
	mu    sync.Mutex
	carts map[string]*localstore.Memory
}

func (m *memoryCarts) Namespace(id string) localstore.Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.carts == nil {
		m.carts = make(map[string]*localstore.Memory)
	}
	s, ok := m.carts[id]
	if !ok {
		s = localstore.NewMemory()
		m.carts[id] = s
	}
	return s
}

type testEnv struct {
	router    http.Handler
	catalog   *fakeCatalog
	orders    *fakeOrders
	publisher *fakePublisher
	notifier  *fakeNotifier
	carts     *memoryCarts
	codec     *session.Codec
	checkouts *checkout.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		catalog:   &fakeCatalog{},
		orders:    &fakeOrders{},
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{configured: true},
		carts:     &memoryCarts{},
		codec:     session.NewCodec("test-secret"),
		checkouts: checkout.NewRegistry(),
	}
	env.router = NewRouter(Deps{
		Logger:           log.New(io.Discard, "", 0),
		Catalog:          env.catalog,
		Orders:           env.orders,
		Events:           env.publisher,
		Notifier:         env.notifier,
		Sessions:         env.codec,
		Carts:            env.carts,
		Checkouts:        env.checkouts,
		CORSAllowOrigins: []string{"*"},
	})
	t.Cleanup(env.checkouts.Wait)
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := e.codec.Encode(session.User{ID: "a1", Email: "admin@example.com", Role: session.RoleAdmin})
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func cookieNamed(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var oud = catalog.Product{
	ID:       "p1",
	Name:     "Oud Royale",
	Category: "men",
	Image:    "/oud.jpg",
	Sizes:    []catalog.Size{{Size: "50ml", Price: 45}, {Size: "100ml", Price: 80}},
}

func (e *testEnv) stockOud() {
	e.catalog.getFunc = func(ctx context.Context, id string) (catalog.Product, []catalog.Product, error) {
		if id == oud.ID {
			return oud, nil, nil
		}
		return catalog.Product{}, nil, catalog.ErrNotFound
	}
}
