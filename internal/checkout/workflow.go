package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

type State int

const (
	StateIdle State = iota
	StateFormOpen
	StateSubmitting
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFormOpen:
		return "form_open"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNotOpen        = errors.New("checkout form is not open")
	ErrSubmitInFlight = errors.New("order submission already in progress")
	ErrAlreadyPlaced  = errors.New("order already placed")
	ErrOrderFailed    = errors.New("failed to place order, try again")
)

// OrderSink persists placed orders. A failure aborts the checkout.
type OrderSink interface {
	Create(ctx context.Context, o *order.Order) error
}

// CartSettler takes the ordered lines out of the shopper's cart after the
// order is stored.
type CartSettler func(ctx context.Context, ordered []cart.Line) error

const defaultNotifyTimeout = 10 * time.Second

// Workflow drives one checkout from the cart page to a placed order.
//
//	Idle -> FormOpen -> Submitting -> Success
//	                        |
//	                        +-> FormOpen (with error)
//
// The owner notification is started after the order is stored and is never
// awaited by Submit; its failure is only logged.
type Workflow struct {
	store    *cart.Store
	sink     OrderSink
	notifier notify.Notifier
	logger   *log.Logger

	NotifyTimeout time.Duration
	// Settle defaults to the workflow's own store. Callers whose cart is
	// shared with other writers replace it with a locked reload.
	Settle CartSettler

	newID func() string
	now   func() time.Time

	mu      sync.Mutex
	state   State
	lastErr error
	placed  *order.Order

	notifications sync.WaitGroup
}

func NewWorkflow(store *cart.Store, sink OrderSink, notifier notify.Notifier, logger *log.Logger) *Workflow {
	return &Workflow{
		store:         store,
		sink:          sink,
		notifier:      notifier,
		logger:        logger,
		NotifyTimeout: defaultNotifyTimeout,
		Settle:        store.Settle,
		newID:         NewOrderID,
		now:           time.Now,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Err is the last error shown to the shopper, cleared when a submit starts.
func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Placed returns the order created by a successful submit.
func (w *Workflow) Placed() *order.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.placed
}

// Open shows the checkout form.
func (w *Workflow) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateFormOpen:
		return nil
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateSuccess:
		return ErrAlreadyPlaced
	}
	if w.store.IsEmpty() {
		return ErrEmptyCart
	}
	w.state = StateFormOpen
	w.lastErr = nil
	return nil
}

// Cancel dismisses the form without placing an order.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateFormOpen {
		w.state = StateIdle
		w.lastErr = nil
	}
}

// Submit validates the form and places the order. Only one submit can be in
// flight; a concurrent call gets ErrSubmitInFlight and creates nothing.
func (w *Workflow) Submit(ctx context.Context, form Form) (*order.Order, error) {
	w.mu.Lock()
	switch w.state {
	case StateSubmitting:
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateSuccess:
		w.mu.Unlock()
		return nil, ErrAlreadyPlaced
	case StateIdle:
		w.mu.Unlock()
		return nil, ErrNotOpen
	}
	if err := form.Validate(); err != nil {
		w.lastErr = err
		w.mu.Unlock()
		return nil, err
	}
	lines := w.store.Lines()
	if len(lines) == 0 {
		w.state = StateIdle
		w.lastErr = ErrEmptyCart
		w.mu.Unlock()
		return nil, ErrEmptyCart
	}
	w.state = StateSubmitting
	w.lastErr = nil
	w.mu.Unlock()

	o := w.buildOrder(lines, form)

	if err := w.sink.Create(ctx, o); err != nil {
		w.logger.Printf("place order %s: %v", o.ID, err)
		failed := fmt.Errorf("%w: %w", ErrOrderFailed, err)
		w.mu.Lock()
		w.state = StateFormOpen
		w.lastErr = ErrOrderFailed
		w.mu.Unlock()
		return nil, failed
	}

	w.notifyDetached(ctx, notify.FromOrder(o))

	if err := w.Settle(ctx, lines); err != nil {
		w.logger.Printf("clear cart after order %s: %v", o.ID, err)
	}

	w.mu.Lock()
	w.state = StateSuccess
	w.placed = o
	w.mu.Unlock()

	return o, nil
}

// Wait blocks until outstanding owner notifications have finished.
func (w *Workflow) Wait() {
	w.notifications.Wait()
}

func (w *Workflow) buildOrder(lines []cart.Line, form Form) *order.Order {
	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.Item{
			Name:     l.Product.Name,
			Size:     l.SelectedSize.Size,
			Price:    l.SelectedSize.Price,
			Quantity: l.Quantity,
			Image:    l.Product.Image,
		})
	}

	return &order.Order{
		ID:                  w.newID(),
		CustomerPhone:       strings.TrimSpace(form.Phone),
		FullDeliveryAddress: form.Address(),
		Items:               items,
		TotalPrice:          cart.Total(lines).Round(2).InexactFloat64(),
		Status:              order.StatusNew,
		CreatedAt:           w.now().UTC(),
	}
}

func (w *Workflow) notifyDetached(ctx context.Context, n notify.Notification) {
	if w.notifier == nil {
		return
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.NotifyTimeout)
	w.notifications.Add(1)
	go func() {
		defer w.notifications.Done()
		defer cancel()
		if err := w.notifier.Notify(nctx, n); err != nil {
			w.logger.Printf("notify owner about order %s: %v", n.OrderID, err)
		}
	}()
}
